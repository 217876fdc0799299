package renderer

import (
	"fmt"

	"github.com/aymerick/raymond"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/rewrite"
	"github.com/geocine/digsite/internal/siteerr"
)

// blocks rewrites the links of every content block of a page.
func (r *Renderer) blocks(site *models.Site, rw *rewrite.Rewriter, blocks []models.Block, page rewrite.Page) ([]blockData, error) {
	out := make([]blockData, 0, len(blocks))
	for _, b := range blocks {
		bd := blockData{Type: b.Type, NoImageCaption: b.NoImageCaption}

		content := b.Content
		if len(b.Toggles) > 0 {
			images := make(map[string]rewrite.ToggleImage, len(b.Toggles))
			for href, img := range b.Toggles {
				images[href] = rewrite.ToggleImage{OldPath: img.OldPath, Caption: img.Caption}
			}
			var err error
			content, err = rewrite.ImageToggles(content, images, func(old string) location.Location {
				return location.Location(imageHref(site, old, page.Location))
			})
			if err != nil {
				return nil, err
			}
		}
		content, err := rw.Rewrite(content, page)
		if err != nil {
			return nil, err
		}
		bd.Content = raymond.SafeString(content)

		if b.Image != nil {
			bd.Image = &imageData{
				Path:    imageHref(site, b.Image.OldPath, page.Location),
				Caption: raymond.SafeString(b.Image.Caption),
			}
		}
		if b.Type == "map" {
			bd.Map = raymond.SafeString(b.Map)
			bd.MapJS = raymond.SafeString(b.MapJS)
			bd.Form = raymond.SafeString(b.Form)
			bd.MapImage = imageHref(site, b.MapImage, page.Location)
		}
		out = append(out, bd)
	}
	return out, nil
}

func (r *Renderer) textPage(site *models.Site, rw *rewrite.Rewriter, n *models.Node, data *pageData) error {
	blocks, err := r.blocks(site, rw, n.Page.Blocks, rewrite.Page{Location: n.Location, OldPath: n.OldPath})
	if err != nil {
		return err
	}
	data.Blocks = blocks
	return nil
}

func (r *Renderer) primerPage(site *models.Site, rw *rewrite.Rewriter, n *models.Node, data *pageData) error {
	if err := r.textPage(site, rw, n, data); err != nil {
		return err
	}
	if img := n.Page.Image; img != nil {
		data.Image = &imageData{
			Path:    imageHref(site, img.OldPath, n.Location),
			Caption: raymond.SafeString(img.Caption),
		}
	}
	return nil
}

func (r *Renderer) excavationPage(site *models.Site, rw *rewrite.Rewriter, n *models.Node, data *pageData) error {
	exc := n.Page.Excavation
	oldPath := n.OldPath
	if exc.DescriptionPath != "" {
		oldPath = exc.DescriptionPath
	}
	blocks, err := r.blocks(site, rw, n.Page.Blocks, rewrite.Page{Location: n.Location, OldPath: oldPath})
	if err != nil {
		return err
	}
	data.Blocks = blocks

	ed := &excavationData{
		Length:  exc.Dimensions.Length,
		Width:   exc.Dimensions.Width,
		Depth:   exc.Dimensions.Depth,
		Type:    exc.Type,
		Volume:  exc.Volume,
		Area:    exc.Area,
		MiniMap: imageHref(site, exc.MiniMap, n.Location),
	}
	// Artifact pages are only linked once they exist in the new site.
	if exc.ArtifactsPath != "" {
		if loc, ok := site.Paths.Lookup(exc.ArtifactsPath); ok {
			ed.Artifacts = location.Rel(loc, n.Location).String()
		}
	}
	for _, num := range exc.Figures {
		fig, ok := site.Figures.ByNumber(num)
		if !ok {
			return siteerr.Fatalf(siteerr.ErrFigureNotFound, "figure %d of %s", num, n.Name)
		}
		ed.Figures = append(ed.Figures, figureThumb{
			Number:  fig.Number,
			Href:    location.Rel(fig.Location, n.Location).String(),
			Image:   imageHref(site, fig.ImagePath, n.Location),
			Caption: raymond.SafeString(fig.Label()),
		})
	}
	data.Excavation = ed
	return nil
}

// appendixPage links the catalog back to its excavation element, which
// may have been registered after the appendix was assembled.
func (r *Renderer) appendixPage(site *models.Site, n *models.Node, data *pageData) error {
	apx := n.Page.Appendix
	ad := &appendixData{ElementName: n.Name}
	if apx.ElementPath != "" {
		loc, ok := site.Paths.Lookup(apx.ElementPath)
		if !ok {
			r.logger.Warn("appendix element was not migrated", "element", apx.ElementPath, "page", n.Location.String())
			loc = site.Paths.Location(apx.ElementPath)
		}
		ad.Element = location.Rel(loc, n.Location).String()
	}
	for _, row := range apx.Rows {
		ad.Rows = append(ad.Rows, appendixRow{Class: row.Class, Type: row.Type, Count: row.Count})
		ad.Total += row.Count
	}
	data.Appendix = ad
	return nil
}

// renderFigures writes one page per figure with its image map.
func (r *Renderer) renderFigures(site *models.Site, rw *rewrite.Rewriter) error {
	for _, fig := range site.Figures.All() {
		hrefs, err := site.ResolveHrefs(fig.Location)
		if err != nil {
			return err
		}
		data := r.baseData(site, hrefs, models.NoNode, fig.Location)
		data.Title = fmt.Sprintf("Figure %d", fig.Number)
		data.Kind = "figure"

		fd := &figureData{
			Number:  fig.Number,
			Video:   fig.IsVideo(),
			Caption: raymond.SafeString(fig.Label()),
			Width:   fig.Width,
			Height:  fig.Height,
		}
		if fd.Video {
			fd.Image = rw.VideoHref(fig.ImagePath, fig.Location).String()
		} else {
			fd.Image = imageHref(site, fig.ImagePath, fig.Location)
		}
		for _, a := range fig.Areas {
			target := oldTarget(a.OldHref, fig.PagePath)
			loc, ok := site.Paths.Lookup(target)
			if !ok {
				r.logger.Warn("figure area target was not migrated", "figure", fig.Number, "old", target)
				loc = site.Paths.Location(target)
			}
			fd.Areas = append(fd.Areas, figureArea{
				Coords: fmt.Sprintf("%d,%d,%d,%d", a.X1, a.Y1, a.X2, a.Y2),
				Href:   location.Rel(loc, fig.Location).String(),
			})
		}
		data.Figure = fd

		if err := r.writePage(fig.Location, "figure", data); err != nil {
			return fmt.Errorf("failed to render figure %d: %w", fig.Number, err)
		}
	}
	return nil
}
