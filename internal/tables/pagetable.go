package tables

import (
	"fmt"
	"sort"

	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/siteerr"
)

// missingPages are absent from the source data but must not break the
// reading order: arithmetic steps over them.
var missingPages = map[PageKey]bool{
	{Scheme: FrontMatter, Ordinal: 5}: true,
}

type pageEntry struct {
	loc     location.Location
	display string
}

// PageEntry is a registered page in reading order.
type PageEntry struct {
	Key      PageKey
	Display  string
	Location location.Location
}

// PageTable maps page numbers of every scheme to page locations and answers
// previous/next queries for pagination.
type PageTable struct {
	pages          map[PageKey]pageEntry
	bounds         map[Scheme][2]int
	chapterLinking bool
	sealed         bool
}

// NewPageTable returns an empty table. With chapterLinking, pagination falls
// through from the end of one scheme into the next scheme in reading order.
func NewPageTable(chapterLinking bool) *PageTable {
	return &PageTable{
		pages:          make(map[PageKey]pageEntry),
		bounds:         make(map[Scheme][2]int),
		chapterLinking: chapterLinking,
	}
}

// Register records the page numbered pageNum at loc. The first registration
// of a page number wins.
func (t *PageTable) Register(pageNum string, loc location.Location) error {
	if t.sealed {
		panic("tables: page registered after assembly finished: " + pageNum)
	}
	k, err := ParsePageKey(pageNum)
	if err != nil {
		return fmt.Errorf("failed to register page: %w", err)
	}
	if _, ok := t.pages[k]; ok {
		return nil
	}
	t.pages[k] = pageEntry{loc: loc, display: pageNum}

	b, ok := t.bounds[k.Scheme]
	if !ok {
		b = [2]int{k.Ordinal, k.Ordinal}
	}
	if k.Ordinal < b[0] {
		b[0] = k.Ordinal
	}
	if k.Ordinal > b[1] {
		b[1] = k.Ordinal
	}
	t.bounds[k.Scheme] = b
	return nil
}

// Seal rejects further registrations and enables queries.
func (t *PageTable) Seal() { t.sealed = true }

// ChapterLinking reports whether pagination crosses scheme boundaries.
func (t *PageTable) ChapterLinking() bool { return t.chapterLinking }

// Location returns the location registered for pageNum.
func (t *PageTable) Location(pageNum string) (location.Location, bool) {
	k, err := ParsePageKey(pageNum)
	if err != nil {
		return location.None, false
	}
	e, ok := t.pages[k]
	return e.loc, ok
}

// Next returns the page after pageNum in reading order, or location.None.
func (t *PageTable) Next(pageNum string) (location.Location, error) {
	return t.neighbor(pageNum, 1)
}

// Prev returns the page before pageNum in reading order, or location.None.
func (t *PageTable) Prev(pageNum string) (location.Location, error) {
	return t.neighbor(pageNum, -1)
}

func (t *PageTable) neighbor(pageNum string, dir int) (location.Location, error) {
	if !t.sealed {
		return location.None, siteerr.Fatalf(siteerr.ErrAssemblyIncomplete, "pagination queried for page %q", pageNum)
	}
	k, err := ParsePageKey(pageNum)
	if err != nil {
		return location.None, siteerr.Fatalf(siteerr.ErrUnknownPage, "%v", err)
	}
	if _, ok := t.pages[k]; !ok {
		return location.None, siteerr.Fatalf(siteerr.ErrUnknownPage, "page %q is not registered", pageNum)
	}

	step := PageKey{Scheme: k.Scheme, Ordinal: k.Ordinal + dir}
	if missingPages[step] {
		if _, ok := t.pages[step]; !ok {
			step.Ordinal += dir
		}
	}
	if e, ok := t.pages[step]; ok {
		return e.loc, nil
	}

	// A gap inside the scheme is not a boundary.
	b := t.bounds[k.Scheme]
	if (dir > 0 && k.Ordinal < b[1]) || (dir < 0 && k.Ordinal > b[0]) {
		return location.None, nil
	}
	if !t.chapterLinking {
		return location.None, nil
	}
	return t.adjacentScheme(k.Scheme, dir), nil
}

// adjacentScheme returns the first (dir > 0) or last (dir < 0) page of the
// nearest non-empty scheme beside s in reading order.
func (t *PageTable) adjacentScheme(s Scheme, dir int) location.Location {
	pos := -1
	for i, o := range schemeOrder {
		if o == s {
			pos = i
			break
		}
	}
	for i := pos + dir; i >= 0 && i < len(schemeOrder); i += dir {
		b, ok := t.bounds[schemeOrder[i]]
		if !ok {
			continue
		}
		edge := b[0]
		if dir < 0 {
			edge = b[1]
		}
		return t.pages[PageKey{Scheme: schemeOrder[i], Ordinal: edge}].loc
	}
	return location.None
}

// Entries lists every registered page in reading order.
func (t *PageTable) Entries() []PageEntry {
	rank := make(map[Scheme]int, len(schemeOrder))
	for i, s := range schemeOrder {
		rank[s] = i
	}
	out := make([]PageEntry, 0, len(t.pages))
	for k, e := range t.pages {
		out = append(out, PageEntry{Key: k, Display: e.display, Location: e.loc})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Scheme != out[j].Key.Scheme {
			return rank[out[i].Key.Scheme] < rank[out[j].Key.Scheme]
		}
		return out[i].Key.Ordinal < out[j].Key.Ordinal
	})
	return out
}
