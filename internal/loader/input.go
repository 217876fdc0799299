package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexString decodes a JSON string, number or array of strings. Extractor
// output is not consistent about which one it writes.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*f = flexString(strings.Join(parts, ""))
	default:
		*f = flexString(data)
	}
	return nil
}

// flexInt decodes a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", string(s), err)
	}
	*f = flexInt(n)
	return nil
}

type imageDoc struct {
	Path    string `json:"path"`
	Src     string `json:"src"`
	Caption string `json:"caption"`
}

func (d *imageDoc) oldPath() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Src
}

type blockDoc struct {
	Type           string              `json:"type"`
	Content        flexString          `json:"content"`
	Image          *imageDoc           `json:"image"`
	PageToImgMap   map[string]imageDoc `json:"pageToImgMap"`
	NoImageCaption string              `json:"noImageCaption"`
	Map            string              `json:"map"`
	MapJS          string              `json:"mapJs"`
	Form           string              `json:"form"`
	MapImg         string              `json:"mapImg"`
}

type pageDoc struct {
	PageTitle              string     `json:"pageTitle"`
	Title                  string     `json:"title"`
	Content                []blockDoc `json:"content"`
	ParentModuleShortTitle string     `json:"parentModuleShortTitle"`
	Image                  *imageDoc  `json:"image"`
}

type sectionDoc struct {
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	PageNum     flexString   `json:"pageNum"`
	Subsections []sectionDoc `json:"subsections"`
}

type moduleDoc struct {
	Path       string       `json:"path"`
	ShortTitle string       `json:"shortTitle"`
	FullTitle  string       `json:"fullTitle"`
	Author     string       `json:"author"`
	Sections   []sectionDoc `json:"sections"`
}

// textChapterDoc is the extractor output of a standard text chapter.
type textChapterDoc struct {
	Path    string `json:"path"`
	Modules []struct {
		Module moduleDoc `json:"module"`
	} `json:"modules"`
	Pages map[string]pageDoc `json:"pages"`
}

type primerVideoDoc struct {
	Caption string `json:"caption"`
	Path    string `json:"path"`
}

// primerChapterDoc is the extractor output of the Archaeology Primer.
type primerChapterDoc struct {
	Path    string                    `json:"path"`
	Videos  map[string]primerVideoDoc `json:"videos"`
	Modules []moduleDoc               `json:"modules"`
	Pages   map[string]pageDoc        `json:"pages"`
}

type elementDoc struct {
	Name            string `json:"name"`
	Path            string `json:"path"`
	MiniMapIcon     string `json:"miniMapIcon"`
	ArtifactsPath   string `json:"artifactsPath"`
	DescriptionPath string `json:"descriptionPath"`
	Info            struct {
		Dimensions struct {
			Length flexString `json:"Length"`
			Width  flexString `json:"Width"`
			Depth  flexString `json:"Depth"`
		} `json:"Dimensions"`
		Type   flexString `json:"Type"`
		Volume flexString `json:"Volume"`
		Area   flexString `json:"Area"`
	} `json:"info"`
	Images []struct {
		FigureNum flexInt `json:"figureNum"`
	} `json:"images"`
}

type descriptionsDoc struct {
	Path   string `json:"path"`
	Module struct {
		Sections []sectionDoc `json:"sections"`
	} `json:"module"`
	Pages map[string]pageDoc `json:"pages"`
}

type artifactDoc struct {
	Class string  `json:"class"`
	Type  string  `json:"type"`
	Count flexInt `json:"count"`
}

type appendixDoc struct {
	Name      string        `json:"name"`
	PageNum   flexInt       `json:"pageNum"`
	Artifacts []artifactDoc `json:"artifacts"`
}

type figureDoc struct {
	FigureNum          flexInt `json:"figureNum"`
	Caption            string  `json:"caption"`
	Path               string  `json:"path"`
	HTMLPagePath       string  `json:"htmlPagePath"`
	OriginalDimensions struct {
		Width  flexInt `json:"width"`
		Height flexInt `json:"height"`
	} `json:"originalDimensions"`
	ClickableAreas []struct {
		X1   flexInt `json:"x1"`
		Y1   flexInt `json:"y1"`
		X2   flexInt `json:"x2"`
		Y2   flexInt `json:"y2"`
		Href string  `json:"href"`
		Path string  `json:"path"`
	} `json:"clickableAreas"`
}

type dataTableDoc struct {
	TableNum flexInt `json:"tableNum"`
	Caption  string  `json:"caption"`
	Table    string  `json:"table"`
}

// Supporting documents, all relative to the input directory.
const (
	figuresFile     = "images.json"
	referencesFile  = "references.json"
	refLettersFile  = "refLetters.json"
	tablesFile      = "tables.json"
	tablePathsFile  = "tablePaths.json"
	tableImagesFile = "tableImages.json"
)
