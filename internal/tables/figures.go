package tables

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/geocine/digsite/internal/location"
)

// ClickableArea is a rectangle of a figure image linking to an old page.
type ClickableArea struct {
	X1, Y1, X2, Y2 int
	OldHref        string
}

// Figure is an image with its caption, addressed by number.
type Figure struct {
	Number    int
	Caption   string
	ImagePath string // old image path, e.g. /html/images/2/210r100.gif
	PagePath  string // old slide page, e.g. /html/excavations/slid_abc.html
	Location  location.Location
	Width     int
	Height    int
	Areas     []ClickableArea
}

// FigureFilename is the output file name of figure n.
func FigureFilename(n int) string {
	return fmt.Sprintf("figure_%04d.html", n)
}

// Label returns the caption with its figure number in bold.
func (f *Figure) Label() string {
	return fmt.Sprintf("<b>Figure %d</b>. %s", f.Number, f.Caption)
}

// IsVideo reports whether the figure image is a video file.
func (f *Figure) IsVideo() bool {
	switch strings.ToLower(path.Ext(f.ImagePath)) {
	case ".mov", ".mpg", ".mp4":
		return true
	}
	return false
}

// FigureTable indexes figures by number and by old page path.
type FigureTable struct {
	byNumber map[int]*Figure
	byPath   map[string]*Figure
	sealed   bool
}

// NewFigureTable returns an empty table.
func NewFigureTable() *FigureTable {
	return &FigureTable{
		byNumber: make(map[int]*Figure),
		byPath:   make(map[string]*Figure),
	}
}

// Register adds f. The first figure registered under a number or path wins.
func (t *FigureTable) Register(f *Figure) {
	if t.sealed {
		panic(fmt.Sprintf("tables: figure %d registered after assembly finished", f.Number))
	}
	if _, ok := t.byNumber[f.Number]; !ok {
		t.byNumber[f.Number] = f
	}
	if f.PagePath != "" {
		if _, ok := t.byPath[f.PagePath]; !ok {
			t.byPath[f.PagePath] = f
		}
	}
}

// Seal rejects further registrations.
func (t *FigureTable) Seal() { t.sealed = true }

// ByNumber returns figure n.
func (t *FigureTable) ByNumber(n int) (*Figure, bool) {
	f, ok := t.byNumber[n]
	return f, ok
}

// ByOldPath returns the figure whose slide page is oldPath.
func (t *FigureTable) ByOldPath(oldPath string) (*Figure, bool) {
	if f, ok := t.byPath[oldPath]; ok {
		return f, true
	}
	f, ok := t.byPath["/"+strings.TrimLeft(oldPath, "/")]
	return f, ok
}

// All returns the figures ordered by number.
func (t *FigureTable) All() []*Figure {
	out := make([]*Figure, 0, len(t.byNumber))
	for _, f := range t.byNumber {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
