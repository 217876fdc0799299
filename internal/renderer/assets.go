package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
)

const (
	pageNumTemplate    = "js/page-num-navigation-template.js"
	pageNumPlaceholder = "'placeholderForJinjaGeneration'"
)

// PageNumScript is where the page number navigation script is written.
var PageNumScript = models.HTMLRoot.Join("js", "page-num-navigation.js")

// copyAssets copies the static frontend files below /html. Templates and
// the page number script template are not copied.
func (r *Renderer) copyAssets() error {
	count := 0
	err := fs.WalkDir(r.opts.Assets, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == templateDir {
				return fs.SkipDir
			}
			return nil
		}
		if p == pageNumTemplate || path.Base(p)[0] == '.' {
			return nil
		}
		data, err := fs.ReadFile(r.opts.Assets, p)
		if err != nil {
			return err
		}
		if err := r.write(models.HTMLRoot.Join(p), assetMediaType(p), data); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Debug("copied assets", "count", count)
	return nil
}

func assetMediaType(p string) string {
	switch path.Ext(p) {
	case ".css":
		return "text/css"
	case ".js":
		return "text/javascript"
	}
	return ""
}

// writePageNumScript fills the page number script with every page number
// and the page's path relative to /html.
func (r *Renderer) writePageNumScript(site *models.Site) error {
	tmpl, err := fs.ReadFile(r.opts.Assets, pageNumTemplate)
	if err != nil {
		return err
	}
	if !bytes.Contains(tmpl, []byte(pageNumPlaceholder)) {
		return fmt.Errorf("%s has no placeholder %s", pageNumTemplate, pageNumPlaceholder)
	}

	pages := make(map[string]string)
	for _, e := range site.Pages.Entries() {
		pages[e.Display] = location.Rel(e.Location, models.HTMLRoot).String()
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return err
	}
	script := bytes.Replace(tmpl, []byte(pageNumPlaceholder), data, 1)
	return r.write(PageNumScript, "text/javascript", script)
}
