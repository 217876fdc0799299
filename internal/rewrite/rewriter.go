package rewrite

import (
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/tables"
)

// Paths resolves old-site paths to new locations.
type Paths interface {
	Lookup(oldKey string) (location.Location, bool)
	Location(oldKey string) location.Location
}

// Options wires the lookup tables into a Rewriter.
type Options struct {
	Paths      Paths
	Figures    *tables.FigureTable
	References *tables.ReferenceTable
	DataTables *tables.TableRegistry

	// Videos maps a video file name to its published location.
	Videos map[string]location.Location
	// VideoDir holds videos without an entry in Videos.
	VideoDir location.Location

	ExternalURL string
	TutorialURL string

	Logger *slog.Logger
}

// Page identifies the page whose content is rewritten.
type Page struct {
	Location location.Location
	// OldPath is the page's path in the old site; relative hrefs are
	// resolved against its directory.
	OldPath string
}

// Rewriter turns the anchors of old-site content into links and modal
// triggers of the new site.
type Rewriter struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Rewriter over the given tables.
func New(opts Options) *Rewriter {
	if opts.VideoDir.IsZero() {
		opts.VideoDir = "/video"
	}
	if opts.Videos == nil {
		opts.Videos = map[string]location.Location{}
	}
	if opts.Figures == nil {
		opts.Figures = tables.NewFigureTable()
	}
	if opts.References == nil {
		opts.References = tables.NewReferenceTable()
	}
	if opts.DataTables == nil {
		opts.DataTables = tables.NewTableRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Rewriter{opts: opts, logger: logger}
}

// anchor is an <a> element and its old target.
type anchor struct {
	sel  *goquery.Selection
	href string
	old  string // rooted old path without fragment or query
	frag string // "#..." suffix of href, if any
	low  string // lowercased old, used for matching
}

// Rewrite rewrites every anchor of fragment for the page at page.Location.
// An anchor that matches no known category aborts with a fatal error.
func (r *Rewriter) Rewrite(fragment string, page Page) (string, error) {
	if !strings.Contains(fragment, "<a") && !strings.Contains(fragment, "<A") {
		return fragment, nil
	}
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	var rerr error
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		a, ok := newAnchor(sel, page)
		if !ok {
			return true
		}
		for _, c := range categories {
			if c.match(a) {
				rerr = c.rewrite(r, a, page)
				return rerr == nil
			}
		}
		rerr = siteerr.Fatalf(siteerr.ErrUnclassifiedLink, "href %q on page %s in fragment %q", a.href, page.Location, fragment)
		return false
	})
	if rerr != nil {
		return "", rerr
	}
	return renderFragment(doc)
}

// newAnchor reads sel's href. Anchors without a target in the old site
// (named anchors, in-page fragments, script links) are skipped.
func newAnchor(sel *goquery.Selection, page Page) (anchor, bool) {
	href, ok := sel.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return anchor{}, false
	}
	old, frag := splitFragment(href)
	old = oldPath(old, page.OldPath)
	return anchor{sel: sel, href: href, old: old, frag: frag, low: strings.ToLower(old)}, true
}

func splitFragment(href string) (string, string) {
	frag := ""
	if i := strings.Index(href, "#"); i >= 0 {
		href, frag = href[:i], href[i:]
	}
	if i := strings.Index(href, "?"); i >= 0 {
		href = href[:i]
	}
	return href, frag
}

// oldPath roots href in the old site's path space.
func oldPath(href, pageOld string) string {
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") || pageOld == "" {
		return path.Clean("/" + href)
	}
	return path.Join(path.Dir(path.Clean("/"+pageOld)), href)
}

// videoTarget resolves a video file name for the page at from.
func (r *Rewriter) videoTarget(name string, from location.Location) location.Location {
	name = mp4Name(name)
	if loc, ok := r.opts.Videos[name]; ok {
		return location.Rel(loc, from)
	}
	return location.Rel(r.opts.VideoDir.Join(name), from)
}

// mp4Path maps legacy QuickTime and MPEG files to their mp4 transcode.
func mp4Path(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".mov", ".mpg":
		return strings.TrimSuffix(p, path.Ext(p)) + ".mp4"
	}
	return p
}

func mp4Name(p string) string { return path.Base(mp4Path(p)) }

// resolve looks oldKey up in the path table and relativizes the result.
// Misses fall back to the old key.
func (r *Rewriter) resolve(oldKey string, from location.Location) location.Location {
	loc, ok := r.opts.Paths.Lookup(oldKey)
	if !ok {
		r.logger.Warn("link target was not migrated", "old", oldKey, "page", from.String())
		loc = r.opts.Paths.Location(oldKey)
	}
	return location.Rel(loc, from)
}
