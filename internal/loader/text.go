package loader

import (
	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/rewrite"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/tables"
	"github.com/geocine/digsite/internal/utils"
)

// pageHook adjusts a page after it was built from its document.
type pageHook func(p *models.Page) error

// moduleSeen tracks the section paths and names of one module.
type moduleSeen struct {
	paths map[string]bool
	names map[string]bool
}

func newModuleSeen() *moduleSeen {
	return &moduleSeen{paths: make(map[string]bool), names: make(map[string]bool)}
}

func (sl *SiteLoader) loadTextChapter(ch config.ChapterConfig, doc *textChapterDoc) error {
	chID := sl.site.NewChapter(ch.Name, doc.Path, location.None)
	sl.site.AddChild(sl.site.Root(), chID)

	for _, m := range doc.Modules {
		if err := sl.addModule(chID, m.Module, doc.Pages, chapterDir(ch), models.TextPage, nil); err != nil {
			return err
		}
	}
	sl.registerNode(doc.Path, chID)
	return nil
}

func (sl *SiteLoader) loadPrimerChapter(ch config.ChapterConfig, doc *primerChapterDoc) error {
	videos := make(map[string]rewrite.Video, len(doc.Videos))
	for href, v := range doc.Videos {
		videos[href] = rewrite.Video{Caption: v.Caption, Path: v.Path}
	}
	markVideos := func(p *models.Page) error {
		for i := range p.Blocks {
			if p.Blocks[i].Type != "paragraph" {
				continue
			}
			content, err := rewrite.MarkPrimerVideos(p.Blocks[i].Content, videos)
			if err != nil {
				return err
			}
			p.Blocks[i].Content = content
		}
		return nil
	}

	chID := sl.site.NewChapter(ch.Name, doc.Path, location.None)
	sl.site.AddChild(sl.site.Root(), chID)

	for _, m := range doc.Modules {
		if err := sl.addModule(chID, m, doc.Pages, chapterDir(ch), models.PrimerPage, markVideos); err != nil {
			return err
		}
	}
	sl.registerNode(doc.Path, chID)
	return nil
}

// addModule assembles one module with its sections and subsections below
// chapter chID.
func (sl *SiteLoader) addModule(chID models.NodeID, md moduleDoc, pages map[string]pageDoc, dir location.Location, kind models.PageKind, hook pageHook) error {
	modID := sl.site.NewModule(md.ShortTitle, md.FullTitle, md.Author, md.Path)
	sl.site.AddChild(chID, modID)

	seen := newModuleSeen()
	for _, sec := range md.Sections {
		if err := sl.addSection(modID, md, sec, pages, dir, kind, hook, seen); err != nil {
			return err
		}
	}

	sl.validateModule(modID)
	sl.registerNode(md.Path, modID)
	return nil
}

func (sl *SiteLoader) addSection(parent models.NodeID, md moduleDoc, sec sectionDoc, pages map[string]pageDoc, dir location.Location, kind models.PageKind, hook pageHook, seen *moduleSeen) error {
	if sec.Path != "" && seen.paths[sec.Path] {
		return siteerr.Fatalf(siteerr.ErrDuplicateSection, "path %s appears twice in module %q", sec.Path, md.ShortTitle)
	}
	if seen.names[sec.Name] {
		return siteerr.Fatalf(siteerr.ErrDuplicateSection, "section %q appears twice in module %q", sec.Name, md.ShortTitle)
	}
	seen.paths[sec.Path] = true
	seen.names[sec.Name] = true

	pageNum := string(sec.PageNum)
	pd, ok := pages[pageNum]
	if !ok {
		return siteerr.Fatalf(siteerr.ErrMissingPage, "no page %q for section %q of module %q", pageNum, sec.Name, md.ShortTitle)
	}
	prefix, err := tables.FilePrefix(pageNum)
	if err != nil {
		return siteerr.Fatalf(siteerr.ErrUnknownPage, "section %q", sec.Name).WithCause(err)
	}
	loc := dir.Join(prefix + "_" + utils.FilenameSafe(sec.Name) + ".html")

	page := newPage(kind, pageNum, sec.Name, pd)
	if hook != nil {
		if err := hook(page); err != nil {
			return err
		}
	}

	id := sl.site.NewPage(sec.Name, sec.Path, loc, page)
	sl.site.AddChild(parent, id)
	if sec.Path != "" {
		sl.site.Paths.RegisterOwned(sec.Path, loc, id)
	}
	if err := sl.site.Pages.Register(pageNum, loc); err != nil {
		return siteerr.Fatalf(siteerr.ErrUnknownPage, "section %q", sec.Name).WithCause(err)
	}

	for _, sub := range sec.Subsections {
		if err := sl.addSection(id, md, sub, pages, dir, kind, hook, seen); err != nil {
			return err
		}
	}
	return nil
}

// registerNode maps oldPath to the node's location once it is known.
func (sl *SiteLoader) registerNode(oldPath string, id models.NodeID) {
	loc := sl.site.Node(id).Location
	if oldPath == "" || loc.IsZero() {
		return
	}
	sl.site.Paths.RegisterOwned(oldPath, loc, id)
}

func newPage(kind models.PageKind, pageNum, name string, pd pageDoc) *models.Page {
	title := pd.PageTitle
	if title == "" {
		title = pd.Title
	}
	if title == "" {
		title = name
	}
	p := &models.Page{
		Kind:             kind,
		PageNum:          pageNum,
		Title:            title,
		ModuleShortTitle: pd.ParentModuleShortTitle,
		Image:            toImage(pd.Image),
	}
	for _, b := range pd.Content {
		p.Blocks = append(p.Blocks, toBlock(b))
	}
	return p
}

func toImage(d *imageDoc) *models.Image {
	if d == nil || d.oldPath() == "" {
		return nil
	}
	return &models.Image{OldPath: d.oldPath(), Caption: d.Caption}
}

func toBlock(b blockDoc) models.Block {
	block := models.Block{
		Type:           b.Type,
		Content:        string(b.Content),
		Image:          toImage(b.Image),
		NoImageCaption: b.NoImageCaption,
		Map:            b.Map,
		MapJS:          b.MapJS,
		Form:           b.Form,
		MapImage:       b.MapImg,
	}
	if len(b.PageToImgMap) > 0 {
		block.Toggles = make(map[string]models.Image, len(b.PageToImgMap))
		for href, img := range b.PageToImgMap {
			block.Toggles[href] = models.Image{OldPath: img.oldPath(), Caption: img.Caption}
		}
	}
	return block
}
