package renderer

import (
	"github.com/aymerick/raymond"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
)

// pageData is the context passed to every page template
type pageData struct {
	Title      string `handlebars:"title"`
	SiteTitle  string `handlebars:"site_title"`
	PathToRoot string `handlebars:"path_to_root"`
	Kind       string `handlebars:"kind"`

	ChapterName string       `handlebars:"chapter_name"`
	ModuleName  string       `handlebars:"module_name"`
	Author      string       `handlebars:"author"`
	Nav         []navChapter `handlebars:"nav"`
	Pagination  *pagination  `handlebars:"pagination"`

	// Failure replaces the page body when the module failed validation.
	Failure string `handlebars:"failure"`

	Content    raymond.SafeString `handlebars:"content"`
	Blocks     []blockData        `handlebars:"blocks"`
	Image      *imageData         `handlebars:"image"`
	Excavation *excavationData    `handlebars:"excavation"`
	Appendix   *appendixData      `handlebars:"appendix"`
	Figure     *figureData        `handlebars:"figure"`
	Chapters   []navChapter       `handlebars:"chapters"`
}

type navChapter struct {
	Name     string      `handlebars:"name"`
	Href     string      `handlebars:"href"`
	External bool        `handlebars:"external"`
	Active   bool        `handlebars:"active"`
	Modules  []navModule `handlebars:"modules"`
}

type navModule struct {
	Name     string       `handlebars:"name"`
	Href     string       `handlebars:"href"`
	Active   bool         `handlebars:"active"`
	Sections []navSection `handlebars:"sections"`
}

type navSection struct {
	Name        string       `handlebars:"name"`
	Href        string       `handlebars:"href"`
	Active      bool         `handlebars:"active"`
	Subsections []navSection `handlebars:"subsections"`
}

type pagination struct {
	Prev    string `handlebars:"prev"`
	PageNum string `handlebars:"page_num"`
	Next    string `handlebars:"next"`
}

type blockData struct {
	Type    string             `handlebars:"type"`
	Content raymond.SafeString `handlebars:"content"`
	Image   *imageData         `handlebars:"image"`

	NoImageCaption string             `handlebars:"no_image_caption"`
	Map            raymond.SafeString `handlebars:"map"`
	MapJS          raymond.SafeString `handlebars:"map_js"`
	Form           raymond.SafeString `handlebars:"form"`
	MapImage       string             `handlebars:"map_image"`
}

type imageData struct {
	Path    string             `handlebars:"path"`
	Caption raymond.SafeString `handlebars:"caption"`
}

type excavationData struct {
	Length      string        `handlebars:"length"`
	Width       string        `handlebars:"width"`
	Depth       string        `handlebars:"depth"`
	Type        string        `handlebars:"type"`
	Volume      string        `handlebars:"volume"`
	Area        string        `handlebars:"area"`
	MiniMap     string        `handlebars:"mini_map"`
	Artifacts   string        `handlebars:"artifacts"`
	Description string        `handlebars:"description"`
	Figures     []figureThumb `handlebars:"figures"`
}

type figureThumb struct {
	Number  int                `handlebars:"number"`
	Href    string             `handlebars:"href"`
	Image   string             `handlebars:"image"`
	Caption raymond.SafeString `handlebars:"caption"`
}

type appendixData struct {
	Element     string        `handlebars:"element"`
	ElementName string        `handlebars:"element_name"`
	Rows        []appendixRow `handlebars:"rows"`
	Total       int           `handlebars:"total"`
}

type appendixRow struct {
	Class string `handlebars:"class"`
	Type  string `handlebars:"type"`
	Count int    `handlebars:"count"`
}

type figureData struct {
	Number  int                `handlebars:"number"`
	Image   string             `handlebars:"image"`
	Video   bool               `handlebars:"video"`
	Caption raymond.SafeString `handlebars:"caption"`
	Width   int                `handlebars:"width"`
	Height  int                `handlebars:"height"`
	Areas   []figureArea       `handlebars:"areas"`
}

type figureArea struct {
	Coords string `handlebars:"coords"`
	Href   string `handlebars:"href"`
}

// pathToRoot is the relative path from loc to the /html directory, with a
// trailing slash.
func pathToRoot(loc location.Location) string {
	return location.Rel(models.HTMLRoot, loc).String() + "/"
}

// buildNav lists every chapter. Modules and sections are only expanded for
// the chapter containing the page at current.
func buildNav(site *models.Site, hrefs models.Hrefs, current models.NodeID) []navChapter {
	activeChapter := models.NoNode
	activeModule := models.NoNode
	if current != models.NoNode {
		activeChapter = site.Ancestor(current, models.ChapterNode)
		activeModule = site.Ancestor(current, models.ModuleNode)
	}

	root := site.Node(site.Root())
	chapters := make([]navChapter, 0, len(root.Children))
	for _, chID := range root.Children {
		ch := site.Node(chID)
		nc := navChapter{
			Name:     ch.Name,
			Href:     navHref(hrefs, chID, ch.Location),
			External: ch.Location.IsExternal(),
			Active:   chID == activeChapter,
		}
		if nc.Active {
			for _, modID := range ch.Children {
				mod := site.Node(modID)
				nc.Modules = append(nc.Modules, navModule{
					Name:     mod.Name,
					Href:     navHref(hrefs, modID, mod.Location),
					Active:   modID == activeModule,
					Sections: navSections(site, hrefs, mod.Children, current),
				})
			}
		}
		chapters = append(chapters, nc)
	}
	return chapters
}

// navHref is the href of a nav entry. An entry pointing at the page being
// rendered links to the page's own file name instead of ".".
func navHref(hrefs models.Hrefs, id models.NodeID, loc location.Location) string {
	h := hrefs[id]
	if h == "." && !loc.IsZero() && !loc.IsExternal() {
		return loc.Base()
	}
	return h.String()
}

func navSections(site *models.Site, hrefs models.Hrefs, ids []models.NodeID, current models.NodeID) []navSection {
	var sections []navSection
	for _, id := range ids {
		n := site.Node(id)
		if n.Kind != models.PageNode {
			continue
		}
		sections = append(sections, navSection{
			Name:        n.Name,
			Href:        navHref(hrefs, id, n.Location),
			Active:      id == current,
			Subsections: navSections(site, hrefs, n.Children, current),
		})
	}
	return sections
}

// buildPagination relativizes the neighbors of a page. Pages without a
// page number have no pagination.
func buildPagination(site *models.Site, page *models.Node) (*pagination, error) {
	num := page.Page.PageNum
	if num == "" {
		return nil, nil
	}
	prev, err := site.Pages.Prev(num)
	if err != nil {
		return nil, err
	}
	next, err := site.Pages.Next(num)
	if err != nil {
		return nil, err
	}
	return &pagination{
		Prev:    location.Rel(prev, page.Location).String(),
		PageNum: num,
		Next:    location.Rel(next, page.Location).String(),
	}, nil
}
