package models

import (
	"fmt"

	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/tables"
)

// NodeID addresses a node in the site arena.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Fixed locations of the generated site.
const (
	HTMLRoot      location.Location = "/html"
	IndexLocation location.Location = "/html/index.html"
	FiguresDir    location.Location = "/html/figures"
	ImagesDir     location.Location = "/imgs"
	VideoDir      location.Location = "/video"
)

// NodeKind is the structural role of a node.
type NodeKind int

const (
	IndexNode NodeKind = iota
	ChapterNode
	ModuleNode
	PageNode
)

func (k NodeKind) String() string {
	switch k {
	case IndexNode:
		return "index"
	case ChapterNode:
		return "chapter"
	case ModuleNode:
		return "module"
	case PageNode:
		return "page"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one entry of the site tree.
type Node struct {
	ID        NodeID
	Kind      NodeKind
	Name      string // full title for modules
	ShortName string // modules only
	Author    string
	OldPath   string
	Location  location.Location
	Parent    NodeID
	Children  []NodeID
	Page      *Page // PageNode only

	// Failure is set on modules whose metadata failed validation.
	Failure error
}

// Site is the tree of the generated site together with the lookup tables
// filled while it is assembled.
type Site struct {
	nodes []*Node

	Paths      *tables.PathTable[NodeID]
	Pages      *tables.PageTable
	Figures    *tables.FigureTable
	References *tables.ReferenceTable
	DataTables *tables.TableRegistry

	// Videos maps a video file name to an externally hosted copy.
	Videos map[string]location.Location

	assembled bool
}

// NewSite creates a site whose index page lives at indexLoc.
func NewSite(indexLoc location.Location, chapterLinking bool) *Site {
	s := &Site{
		Paths:      tables.NewPathTable[NodeID](),
		Pages:      tables.NewPageTable(chapterLinking),
		Figures:    tables.NewFigureTable(),
		References: tables.NewReferenceTable(),
		DataTables: tables.NewTableRegistry(),
		Videos:     make(map[string]location.Location),
	}
	s.add(&Node{Kind: IndexNode, Name: "Index", Location: indexLoc})
	return s
}

func (s *Site) add(n *Node) NodeID {
	if s.assembled {
		panic("models: node added after assembly finished: " + n.Name)
	}
	n.ID = NodeID(len(s.nodes))
	n.Parent = NoNode
	s.nodes = append(s.nodes, n)
	return n.ID
}

// Root returns the index node.
func (s *Site) Root() NodeID { return 0 }

// Node returns the node with the given id.
func (s *Site) Node(id NodeID) *Node { return s.nodes[id] }

// Len returns the number of nodes.
func (s *Site) Len() int { return len(s.nodes) }

// NewChapter adds a detached chapter. loc may be unset; it is then taken
// from the first module added.
func (s *Site) NewChapter(name, oldPath string, loc location.Location) NodeID {
	return s.add(&Node{Kind: ChapterNode, Name: name, OldPath: oldPath, Location: loc})
}

// NewModule adds a detached module.
func (s *Site) NewModule(shortName, fullName, author, oldPath string) NodeID {
	return s.add(&Node{Kind: ModuleNode, Name: fullName, ShortName: shortName, Author: author, OldPath: oldPath})
}

// NewPage adds a detached page.
func (s *Site) NewPage(name, oldPath string, loc location.Location, page *Page) NodeID {
	return s.add(&Node{Kind: PageNode, Name: name, OldPath: oldPath, Location: loc, Page: page})
}

// AddChild appends child to parent. A page added below another page is a
// subsection: it is listed under that page but its parent is the module.
// An unset parent location takes the child's location, and so on upward.
func (s *Site) AddChild(parent, child NodeID) {
	p := s.nodes[parent]
	c := s.nodes[child]
	p.Children = append(p.Children, child)
	c.Parent = parent
	if p.Kind == PageNode {
		c.Parent = p.Parent
	}
	if c.Kind == PageNode {
		s.reparentSubsections(c)
	}

	if c.Location.IsZero() {
		return
	}
	for id := parent; id != NoNode; id = s.nodes[id].Parent {
		n := s.nodes[id]
		if !n.Location.IsZero() {
			break
		}
		n.Location = c.Location
	}
}

// reparentSubsections points the subsections listed under page at the
// page's own parent, which may only be known after they were added.
func (s *Site) reparentSubsections(page *Node) {
	for _, id := range page.Children {
		sub := s.nodes[id]
		if sub.Kind != PageNode {
			continue
		}
		sub.Parent = page.Parent
		s.reparentSubsections(sub)
	}
}

// Ancestor returns the closest ancestor of id (or id itself) of the given
// kind, or NoNode.
func (s *Site) Ancestor(id NodeID, kind NodeKind) NodeID {
	for id != NoNode {
		if s.nodes[id].Kind == kind {
			return id
		}
		id = s.nodes[id].Parent
	}
	return NoNode
}

// MarkFailed records a validation failure on a node.
func (s *Site) MarkFailed(id NodeID, err error) {
	s.nodes[id].Failure = err
}

// FinishAssembly closes the assembly phase. Tables stop accepting entries
// and href resolution becomes available.
func (s *Site) FinishAssembly() {
	if s.assembled {
		return
	}
	s.Paths.Seal()
	s.Pages.Seal()
	s.Figures.Seal()
	s.References.Seal()
	s.DataTables.Seal()
	s.assembled = true
}

// Assembled reports whether FinishAssembly was called.
func (s *Site) Assembled() bool { return s.assembled }

// Walk visits every node reachable from the root in depth-first pre-order.
// Subsections are visited right after the page that lists them.
func (s *Site) Walk(fn func(n *Node) error) error {
	return s.walk(s.Root(), fn)
}

func (s *Site) walk(id NodeID, fn func(n *Node) error) error {
	n := s.nodes[id]
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := s.walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Hrefs is the location of every node relative to one start location.
type Hrefs map[NodeID]location.Location

// ResolveHrefs computes every node's location relative to start. The
// result is only valid for the page being rendered at start.
func (s *Site) ResolveHrefs(start location.Location) (Hrefs, error) {
	if !s.assembled {
		return nil, siteerr.Fatalf(siteerr.ErrAssemblyIncomplete, "hrefs resolved from %s", start)
	}
	hrefs := make(Hrefs, len(s.nodes))
	err := s.Walk(func(n *Node) error {
		hrefs[n.ID] = location.Rel(n.Location, start)
		return nil
	})
	return hrefs, err
}

// PageIDs returns every page in rendering order.
func (s *Site) PageIDs() []NodeID {
	var ids []NodeID
	_ = s.Walk(func(n *Node) error {
		if n.Kind == PageNode {
			ids = append(ids, n.ID)
		}
		return nil
	})
	return ids
}
