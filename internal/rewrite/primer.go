package rewrite

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocine/digsite/internal/location"
)

// Video is a primer video keyed by the href that plays it.
type Video struct {
	Caption string
	Path    string
}

// MarkPrimerVideos tags the anchors of a primer fragment that play one of
// videos. The rewriter later turns tagged anchors into video modals.
func MarkPrimerVideos(fragment string, videos map[string]Video) (string, error) {
	if len(videos) == 0 || !strings.Contains(fragment, "<a") {
		return fragment, nil
	}
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		v, ok := videos[href]
		if !ok {
			return
		}
		if v.Path != "" {
			href = v.Path
		}
		sel.SetAttr("href", mp4Path(href))
		sel.SetAttr("data-figure-caption", v.Caption)
		sel.SetAttr("data-is-primer", "yes")
	})
	return renderFragment(doc)
}

// ImageToggles turns the anchors of a primer list that switch the page
// image into script toggles. resolve maps an old image path to a location
// relative to the page.
func ImageToggles(fragment string, images map[string]ToggleImage, resolve func(oldPath string) location.Location) (string, error) {
	if len(images) == 0 || !strings.Contains(fragment, "<a") {
		return fragment, nil
	}
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		img, ok := images[href]
		if !ok {
			return
		}
		sel.SetAttr("href", "javascript:void(0);")
		sel.SetAttr("data-image-path", resolve(img.OldPath).String())
		sel.SetAttr("data-image-caption", img.Caption)
	})
	return renderFragment(doc)
}

// ToggleImage is the image shown when a primer list entry is clicked.
type ToggleImage struct {
	OldPath string
	Caption string
}
