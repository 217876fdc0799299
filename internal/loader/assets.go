package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/tables"
	"github.com/spf13/afero"
)

// registerImages registers every file below <dig>/html/images.
func (sl *SiteLoader) registerImages() error {
	if sl.cfg.Input.DigDir == "" {
		return nil
	}
	root := filepath.Join(sl.cfg.Input.DigDir, "html", "images")
	if ok, _ := afero.DirExists(sl.fs, root); !ok {
		sl.logger.Warn("image directory not found", "dir", root)
		return nil
	}

	count := 0
	err := afero.Walk(sl.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(sl.cfg.Input.DigDir, p)
		if err != nil {
			return err
		}
		key := "/" + filepath.ToSlash(rel)
		sl.site.Paths.Register(key, models.ImageLocation(key))
		count++
		return nil
	})
	if err != nil {
		return err
	}
	sl.logger.Debug("registered images", "count", count)
	return nil
}

func (sl *SiteLoader) loadFigures() error {
	var docs map[string]figureDoc
	found, err := sl.readOptionalJSON(figuresFile, &docs)
	if err != nil || !found {
		return err
	}

	figures := make([]figureDoc, 0, len(docs))
	for _, d := range docs {
		figures = append(figures, d)
	}
	sort.Slice(figures, func(i, j int) bool { return figures[i].FigureNum < figures[j].FigureNum })

	for _, d := range figures {
		n := int(d.FigureNum)
		fig := &tables.Figure{
			Number:    n,
			Caption:   d.Caption,
			ImagePath: d.Path,
			PagePath:  d.HTMLPagePath,
			Location:  models.FiguresDir.Join(tables.FigureFilename(n)),
			Width:     int(d.OriginalDimensions.Width),
			Height:    int(d.OriginalDimensions.Height),
		}
		for _, a := range d.ClickableAreas {
			href := a.Href
			if href == "" {
				href = a.Path
			}
			fig.Areas = append(fig.Areas, tables.ClickableArea{
				X1: int(a.X1), Y1: int(a.Y1), X2: int(a.X2), Y2: int(a.Y2),
				OldHref: href,
			})
		}
		sl.site.Figures.Register(fig)
		if d.Path != "" {
			sl.site.Paths.Register(d.Path, models.ImageLocation(d.Path))
		}
		if d.HTMLPagePath != "" {
			sl.site.Paths.Register(d.HTMLPagePath, fig.Location)
		}
	}
	sl.logger.Debug("loaded figures", "count", len(figures))
	return nil
}

func (sl *SiteLoader) loadReferences() error {
	var authors map[string][]string
	if _, err := sl.readOptionalJSON(referencesFile, &authors); err != nil {
		return err
	}
	for author, refs := range authors {
		sl.site.References.RegisterAuthor(author, refs)
	}

	var letters map[string]tables.RefPointer
	if _, err := sl.readOptionalJSON(refLettersFile, &letters); err != nil {
		return err
	}
	for code, p := range letters {
		sl.site.References.RegisterLetters(code, p)
	}
	return nil
}

func (sl *SiteLoader) loadDataTables() error {
	var docs map[string]dataTableDoc
	if _, err := sl.readOptionalJSON(tablesFile, &docs); err != nil {
		return err
	}
	for _, d := range docs {
		sl.site.DataTables.Register(&tables.DataTable{Number: int(d.TableNum), Caption: d.Caption, Body: d.Table})
	}

	var paths map[string]flexInt
	if _, err := sl.readOptionalJSON(tablePathsFile, &paths); err != nil {
		return err
	}
	for old, n := range paths {
		sl.site.DataTables.RegisterPath(old, int(n))
	}

	var images map[string]flexInt
	if _, err := sl.readOptionalJSON(tableImagesFile, &images); err != nil {
		return err
	}
	for page, n := range images {
		sl.site.DataTables.RegisterImage(page, int(n))
	}
	return nil
}

// loadVideos reads the file name → URL table of externally hosted videos.
func (sl *SiteLoader) loadVideos() error {
	if sl.cfg.Input.Videos == "" {
		return nil
	}
	var urls map[string]string
	if err := sl.readJSON(sl.cfg.Input.Videos, &urls); err != nil {
		return err
	}
	for name, u := range urls {
		sl.site.Videos[name] = location.Location(u)
	}
	return nil
}
