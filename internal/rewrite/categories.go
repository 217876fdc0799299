package rewrite

import (
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/siteerr"
)

// Modal dialogs of the page layout.
const (
	genericModal = "#genModal"
	versionModal = "#versionModal"
	tableImg     = "#tableImgModal"
)

// category is one class of old link. Categories are tried in order and the
// first match handles the anchor.
type category struct {
	name    string
	match   func(a anchor) bool
	rewrite func(r *Rewriter, a anchor, page Page) error
}

var categories = []category{
	{"primer-video", isPrimerVideo, (*Rewriter).primerVideo},
	{"figure", isFigure, (*Rewriter).figure},
	{"reference", isReference, (*Rewriter).reference},
	{"table", isTable, (*Rewriter).table},
	{"chapter", isChapterContent, (*Rewriter).chapterContent},
	{"video", isVideoFile, (*Rewriter).videoFile},
	{"version", isVersion, (*Rewriter).version},
	{"gateway", isGateway, (*Rewriter).gateway},
	{"tutorial", isTutorial, (*Rewriter).tutorial},
}

// Directories of chapter content whose pages were migrated one to one.
var (
	bodyDirs  = []string{"part0", "part1", "part2", "part3", "part4", "part5", "descriptions"}
	otherDirs = []string{"artifacts", "excavations", "part6", "dbs", "started", "primer", "maps", "data"}
)

var refPage = regexp.MustCompile(`(?i)^ref_([a-z]+)\.html?$`)

func isPrimerVideo(a anchor) bool {
	v, ok := a.sel.Attr("data-is-primer")
	return ok && v != ""
}

func isFigure(a anchor) bool { return strings.Contains(path.Base(a.low), "slid") }

func isReference(a anchor) bool { return refPage.MatchString(path.Base(a.old)) }

func isTable(a anchor) bool { return strings.Contains(a.low, "html/table") }

func isChapterContent(a anchor) bool {
	return inDirs(a.low, bodyDirs) || inDirs(a.low, otherDirs)
}

func isVideoFile(a anchor) bool { return strings.Contains(a.low, "video") }

func isVersion(a anchor) bool { return path.Base(a.low) == "version.html" }

func isGateway(a anchor) bool {
	base := path.Base(a.low)
	return base == "javalaunch.html" || base == "digquery.html"
}

func isTutorial(a anchor) bool { return strings.Contains(a.low, "tutorial") }

// inDirs reports whether p has one of dirs as a path segment.
func inDirs(p string, dirs []string) bool {
	for _, seg := range strings.Split(p, "/") {
		for _, d := range dirs {
			if seg == d {
				return true
			}
		}
	}
	return false
}

func setModal(sel *goquery.Selection, class, target string) {
	sel.SetAttr("class", class)
	sel.SetAttr("href", target)
	sel.SetAttr("data-toggle", "modal")
	sel.SetAttr("data-target", target)
}

func (r *Rewriter) primerVideo(a anchor, page Page) error {
	setModal(a.sel, "a-video", genericModal)
	a.sel.SetAttr("data-figure-path", r.videoTarget(a.old, page.Location).String())
	if _, ok := a.sel.Attr("data-figure-caption"); !ok {
		a.sel.SetAttr("data-figure-caption", "")
	}
	a.sel.RemoveAttr("data-is-primer")
	return nil
}

func (r *Rewriter) figure(a anchor, page Page) error {
	fig, ok := r.opts.Figures.ByOldPath(a.old)
	if !ok {
		return siteerr.Fatalf(siteerr.ErrFigureNotFound, "figure page %s linked from %s", a.old, page.Location)
	}
	if fig.IsVideo() || strings.Contains(a.low, "mov.htm") || strings.Contains(a.low, "mpg.htm") {
		setModal(a.sel, "a-video", genericModal)
		a.sel.SetAttr("data-figure-caption", fig.Label())
		a.sel.SetAttr("data-figure-path", r.videoTarget(fig.ImagePath, page.Location).String())
		return nil
	}
	src := r.resolve(fig.ImagePath, page.Location).String()
	a.sel.SetAttr("class", "a-img")
	a.sel.SetAttr("href", src)
	a.sel.SetAttr("data-src", src)
	a.sel.SetAttr("data-sub-html", fig.Label())
	return nil
}

func (r *Rewriter) reference(a anchor, page Page) error {
	letters := refPage.FindStringSubmatch(path.Base(a.old))[1]
	setModal(a.sel, "a-ref", genericModal)
	c, ok := r.opts.References.ByLetters(letters)
	if !ok {
		r.logger.Warn("unknown reference", "letters", letters, "page", page.Location.String())
	}
	a.sel.SetAttr("data-author", c.Author)
	a.sel.SetAttr("data-ref-text", c.Text)
	return nil
}

func (r *Rewriter) table(a anchor, page Page) error {
	t, ok := r.opts.DataTables.ByOldPath(a.old)
	if !ok {
		return siteerr.Fatalf(siteerr.ErrTableNotFound, "table page %s linked from %s", a.old, page.Location)
	}
	body, err := r.tableBody(t.Body, page)
	if err != nil {
		return err
	}
	setModal(a.sel, "a-table", genericModal)
	a.sel.SetAttr("data-table-header", t.Label())
	a.sel.SetAttr("data-table-string", body)
	return nil
}

// tableBody turns the thumbnail links inside a data table into figure
// modal triggers.
func (r *Rewriter) tableBody(body string, page Page) (string, error) {
	doc, err := parseFragment(body)
	if err != nil {
		return "", err
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		n, ok := r.opts.DataTables.FigureNumByHTMLPath(href)
		if !ok {
			r.logger.Warn("table link is not a known figure", "href", href, "page", page.Location.String())
			return
		}
		fig, ok := r.opts.Figures.ByNumber(n)
		if !ok {
			r.logger.Warn("table links to a missing figure", "figure", n, "page", page.Location.String())
			return
		}
		setModal(sel, "a-table-img", tableImg)
		sel.SetAttr("data-figure-caption", fig.Label())
		sel.SetAttr("data-figure-path", r.resolve(fig.ImagePath, page.Location).String())
	})
	return renderFragment(doc)
}

func (r *Rewriter) chapterContent(a anchor, page Page) error {
	old := a.old
	if inDirs(a.low, bodyDirs) {
		dir, base := path.Split(old)
		if strings.Contains(base, "_") {
			old = dir + strings.ReplaceAll(base, "tab", "body")
		}
	}
	a.sel.SetAttr("href", r.resolve(old, page.Location).String()+a.frag)
	return nil
}

func (r *Rewriter) videoFile(a anchor, page Page) error {
	a.sel.SetAttr("href", r.videoTarget(a.old, page.Location).String())
	return nil
}

func (r *Rewriter) version(a anchor, _ Page) error {
	a.sel.SetAttr("href", versionModal)
	a.sel.SetAttr("data-toggle", "modal")
	a.sel.SetAttr("data-target", versionModal)
	return nil
}

func (r *Rewriter) gateway(a anchor, _ Page) error {
	a.sel.SetAttr("href", r.opts.ExternalURL)
	return nil
}

func (r *Rewriter) tutorial(a anchor, _ Page) error {
	a.sel.SetAttr("href", r.opts.TutorialURL)
	return nil
}

// VideoHref returns the location of video file name relative to from.
func (r *Rewriter) VideoHref(name string, from location.Location) location.Location {
	return r.videoTarget(name, from)
}
