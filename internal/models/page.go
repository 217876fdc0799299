package models

import "fmt"

// PageKind selects how a page is rendered.
type PageKind int

const (
	TextPage PageKind = iota
	ExcavationPage
	PrimerPage
	AppendixAPage
	AppendixBPage
)

func (k PageKind) String() string {
	switch k {
	case TextPage:
		return "text"
	case ExcavationPage:
		return "excavation"
	case PrimerPage:
		return "primer"
	case AppendixAPage:
		return "appendix-a"
	case AppendixBPage:
		return "appendix-b"
	}
	return fmt.Sprintf("page-kind(%d)", int(k))
}

// Block is one content fragment of a page.
type Block struct {
	Type    string
	Content string
	Image   *Image // optional inline image

	// Primer list blocks: href -> image shown when the entry is clicked.
	Toggles        map[string]Image
	NoImageCaption string

	// Primer map blocks.
	Map      string
	MapJS    string
	Form     string
	MapImage string // old path
}

// Image is an old-site image with a caption.
type Image struct {
	OldPath string
	Caption string
}

// Dimensions of an excavation element.
type Dimensions struct {
	Length string
	Width  string
	Depth  string
}

// Excavation holds the data of an excavation element page.
type Excavation struct {
	Dimensions      Dimensions
	Type            string
	Volume          string
	Area            string
	MiniMap         string
	ArtifactsPath   string
	DescriptionPath string
	Figures         []int
}

// ArtifactRow is one line of an artifact catalog.
type ArtifactRow struct {
	Class string
	Type  string
	Count int
}

// Appendix holds the artifact catalog of one excavation element.
type Appendix struct {
	ElementPath string
	Rows        []ArtifactRow
}

// Page is the payload of a PageNode.
type Page struct {
	Kind    PageKind
	PageNum string
	Title   string
	Blocks  []Block

	// ModuleShortTitle is the module the source data files the page under.
	ModuleShortTitle string

	// Primer pages.
	Image *Image

	Excavation *Excavation
	Appendix   *Appendix
}
