package loader

import (
	"strings"
	"unicode"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/tables"
	"github.com/geocine/digsite/internal/utils"
)

// Excavation element groups, in sidebar order.
var excavationGroups = []string{"Features", "Squares", "Structures"}

func excavationGroup(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "feature"), strings.Contains(lower, "burial"):
		return "Features"
	case strings.Contains(lower, "structure"):
		return "Structures"
	}
	return "Squares"
}

func (sl *SiteLoader) loadExcavationChapter(ch config.ChapterConfig, elements []elementDoc, desc *descriptionsDoc) error {
	chID := sl.site.NewChapter(ch.Name, "", location.None)
	sl.site.AddChild(sl.site.Root(), chID)

	grouped := make(map[string][]elementDoc, len(excavationGroups))
	for _, el := range elements {
		g := excavationGroup(el.Name)
		grouped[g] = append(grouped[g], el)
	}

	dir := chapterDir(ch)
	for _, group := range excavationGroups {
		if len(grouped[group]) == 0 {
			continue
		}
		modID := sl.site.NewModule(group, group, "", "")
		sl.site.AddChild(chID, modID)
		for _, el := range grouped[group] {
			if err := sl.addElement(modID, el, desc, dir); err != nil {
				return err
			}
		}
	}
	sl.registerNode(desc.Path, chID)
	return nil
}

func (sl *SiteLoader) addElement(modID models.NodeID, el elementDoc, desc *descriptionsDoc, dir location.Location) error {
	exc := &models.Excavation{
		Dimensions: models.Dimensions{
			Length: string(el.Info.Dimensions.Length),
			Width:  string(el.Info.Dimensions.Width),
			Depth:  string(el.Info.Dimensions.Depth),
		},
		Type:            string(el.Info.Type),
		Volume:          string(el.Info.Volume),
		Area:            string(el.Info.Area),
		MiniMap:         el.MiniMapIcon,
		ArtifactsPath:   el.ArtifactsPath,
		DescriptionPath: el.DescriptionPath,
	}
	for _, img := range el.Images {
		exc.Figures = append(exc.Figures, int(img.FigureNum))
	}

	page := &models.Page{Kind: models.ExcavationPage, Title: el.Name, Excavation: exc}
	filename := utils.FilenameSafe(el.Name) + ".html"

	sec := matchDescription(el.Name, desc.Module.Sections)
	if sec != nil {
		pageNum := string(sec.PageNum)
		prefix, err := tables.FilePrefix(pageNum)
		if err != nil {
			return siteerr.Fatalf(siteerr.ErrUnknownPage, "description of %q", el.Name).WithCause(err)
		}
		filename = prefix + "_" + filename
		page.PageNum = pageNum
		if pd, ok := desc.Pages[pageNum]; ok {
			for _, b := range pd.Content {
				page.Blocks = append(page.Blocks, toBlock(b))
			}
		}
	} else {
		sl.logger.Debug("excavation element has no description", "element", el.Name)
	}

	loc := dir.Join(filename)
	id := sl.site.NewPage(el.Name, el.Path, loc, page)
	sl.site.AddChild(modID, id)

	if el.Path != "" {
		sl.site.Paths.RegisterOwned(el.Path, loc, id)
	}
	if sec != nil {
		if sec.Path != "" {
			sl.site.Paths.RegisterOwned(sec.Path, loc, id)
		}
		if err := sl.site.Pages.Register(page.PageNum, loc); err != nil {
			return siteerr.Fatalf(siteerr.ErrUnknownPage, "element %q", el.Name).WithCause(err)
		}
	}
	return nil
}

// matchDescription finds the description section of an element. An exact
// name wins; otherwise the first section containing the name not followed
// by a digit, so that "Feature 1" does not match "Feature 10".
func matchDescription(name string, sections []sectionDoc) *sectionDoc {
	var found *sectionDoc
	for i := range sections {
		s := &sections[i]
		if s.Name == name {
			return s
		}
		if found == nil && containsName(s.Name, name) {
			found = s
		}
	}
	return found
}

func containsName(s, name string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], name)
		if i < 0 {
			return false
		}
		end := start + i + len(name)
		if end == len(s) || !unicode.IsDigit(rune(s[end])) {
			return true
		}
		start += i + 1
	}
}
