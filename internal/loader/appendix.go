package loader

import (
	"fmt"
	"sort"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/tables"
	"github.com/geocine/digsite/internal/utils"
)

// loadAppendixChapter builds one module with a single page for every
// excavation element of an artifact appendix.
func (sl *SiteLoader) loadAppendixChapter(ch config.ChapterConfig, docs map[string]appendixDoc) error {
	kind, scheme := models.AppendixAPage, tables.AppendixA
	if ch.Kind == config.AppendixBChapter {
		kind, scheme = models.AppendixBPage, tables.AppendixB
	}

	elementPaths := make([]string, 0, len(docs))
	for p := range docs {
		elementPaths = append(elementPaths, p)
	}
	sort.Slice(elementPaths, func(i, j int) bool {
		a, b := docs[elementPaths[i]], docs[elementPaths[j]]
		if a.PageNum != b.PageNum {
			return a.PageNum < b.PageNum
		}
		return elementPaths[i] < elementPaths[j]
	})

	chID := sl.site.NewChapter(ch.Name, "", location.None)
	sl.site.AddChild(sl.site.Root(), chID)

	dir := chapterDir(ch)
	for _, elementPath := range elementPaths {
		doc := docs[elementPath]
		key := tables.PageKey{Scheme: scheme, Ordinal: int(doc.PageNum) + 1}
		pageNum := key.String()
		loc := dir.Join(fmt.Sprintf("%s_%s.html", key.FilePrefix(), utils.FilenameSafe(doc.Name)))

		appendix := &models.Appendix{ElementPath: elementPath}
		for _, a := range doc.Artifacts {
			appendix.Rows = append(appendix.Rows, models.ArtifactRow{Class: a.Class, Type: a.Type, Count: int(a.Count)})
		}

		modID := sl.site.NewModule(doc.Name, doc.Name, "", "")
		sl.site.AddChild(chID, modID)
		id := sl.site.NewPage(doc.Name, "", loc, &models.Page{
			Kind:     kind,
			PageNum:  pageNum,
			Title:    doc.Name,
			Appendix: appendix,
		})
		sl.site.AddChild(modID, id)
		if err := sl.site.Pages.Register(pageNum, loc); err != nil {
			return siteerr.Fatalf(siteerr.ErrUnknownPage, "appendix page of %q", doc.Name).WithCause(err)
		}
	}
	return nil
}
