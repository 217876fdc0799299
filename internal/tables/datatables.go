package tables

import (
	"fmt"
	"path"
	"strings"
)

// DataTable is a numbered data table from the old site.
type DataTable struct {
	Number  int
	Caption string
	Body    string
}

// Label returns the caption with its table number in bold.
func (d *DataTable) Label() string {
	return fmt.Sprintf("<b>Table %d</b>. %s", d.Number, d.Caption)
}

// TableRegistry indexes data tables by old page path and maps the pages of
// thumbnails embedded in tables to figure numbers.
type TableRegistry struct {
	tables       map[int]*DataTable
	paths        map[string]int
	imageFigures map[string]int
	sealed       bool
}

// NewTableRegistry returns an empty registry.
func NewTableRegistry() *TableRegistry {
	return &TableRegistry{
		tables:       make(map[int]*DataTable),
		paths:        make(map[string]int),
		imageFigures: make(map[string]int),
	}
}

// Register adds a table. The first table registered under a number wins.
func (r *TableRegistry) Register(t *DataTable) {
	if r.sealed {
		panic(fmt.Sprintf("tables: table %d registered after assembly finished", t.Number))
	}
	if _, ok := r.tables[t.Number]; !ok {
		r.tables[t.Number] = t
	}
}

// RegisterPath maps an old table page to table n.
func (r *TableRegistry) RegisterPath(oldPath string, n int) {
	if r.sealed {
		panic("tables: table path registered after assembly finished: " + oldPath)
	}
	if _, ok := r.paths[oldPath]; !ok {
		r.paths[oldPath] = n
	}
}

// RegisterImage maps an embedded image page to figure n.
func (r *TableRegistry) RegisterImage(htmlPath string, n int) {
	if r.sealed {
		panic("tables: table image registered after assembly finished: " + htmlPath)
	}
	if _, ok := r.imageFigures[htmlPath]; !ok {
		r.imageFigures[htmlPath] = n
	}
}

// Seal stops the registry from accepting registrations.
func (r *TableRegistry) Seal() { r.sealed = true }

// ByNumber returns table n.
func (r *TableRegistry) ByNumber(n int) (*DataTable, bool) {
	t, ok := r.tables[n]
	return t, ok
}

// ByOldPath returns the table shown on the old page oldPath.
func (r *TableRegistry) ByOldPath(oldPath string) (*DataTable, bool) {
	n, ok := r.paths[oldPath]
	if !ok {
		n, ok = r.paths["/"+strings.TrimLeft(oldPath, "/")]
	}
	if !ok {
		return nil, false
	}
	return r.ByNumber(n)
}

// FigureNumByHTMLPath returns the figure number of an image page linked from
// inside a table. Both the full href and its base name are tried.
func (r *TableRegistry) FigureNumByHTMLPath(htmlPath string) (int, bool) {
	if n, ok := r.imageFigures[htmlPath]; ok {
		return n, true
	}
	n, ok := r.imageFigures[path.Base(htmlPath)]
	return n, ok
}
