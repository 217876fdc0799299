package renderer

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/rewrite"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/utils"
	"github.com/spf13/afero"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/yuin/goldmark"
)

// Options configures a Renderer
type Options struct {
	// Fs receives the generated site below DestDir.
	Fs      afero.Fs
	DestDir string
	// Source holds the files named by the configuration, such as the intro.
	Source afero.Fs
	Config *config.Config
	// Assets is the frontend directory: templates/, js/ and css/.
	Assets fs.FS
	Logger *slog.Logger
}

// Renderer writes an assembled site as HTML
type Renderer struct {
	opts      Options
	cfg       *config.Config
	logger    *slog.Logger
	templates *TemplateSet
	markdown  goldmark.Markdown
	minifier  *minify.M
}

// New creates a renderer. The templates are parsed once here and reused
// for every page.
func New(opts Options) (*Renderer, error) {
	if opts.Config == nil {
		opts.Config = config.NewDefaultConfig()
	}
	if opts.Source == nil {
		opts.Source = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	templates, err := LoadTemplateSet(opts.Assets)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		opts:      opts,
		cfg:       opts.Config,
		logger:    logger,
		templates: templates,
		markdown:  newMarkdown(),
	}
	if opts.Config.Build.Minify {
		r.minifier = minify.New()
		r.minifier.AddFunc("text/html", html.Minify)
		r.minifier.AddFunc("text/css", css.Minify)
		r.minifier.AddFunc("text/javascript", js.Minify)
	}
	return r, nil
}

// Render writes the index, every page, the figure pages, the page number
// script and the static assets. The site must have finished assembly.
func (r *Renderer) Render(site *models.Site) error {
	if !site.Assembled() {
		return siteerr.Fatalf(siteerr.ErrAssemblyIncomplete, "render started before assembly finished")
	}
	if err := r.prepareDest(); err != nil {
		return err
	}

	rw := rewrite.New(rewrite.Options{
		Paths:       site.Paths,
		Figures:     site.Figures,
		References:  site.References,
		DataTables:  site.DataTables,
		Videos:      site.Videos,
		VideoDir:    models.VideoDir,
		ExternalURL: r.cfg.Site.ExternalURL,
		TutorialURL: r.cfg.Site.TutorialURL,
		Logger:      r.logger,
	})

	if err := r.copyAssets(); err != nil {
		return fmt.Errorf("failed to copy assets: %w", err)
	}
	if err := r.renderIndex(site); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	pages := site.PageIDs()
	for _, id := range pages {
		if err := r.renderPage(site, rw, id); err != nil {
			return fmt.Errorf("failed to render %s: %w", site.Node(id).Location, err)
		}
	}
	if err := r.renderFigures(site, rw); err != nil {
		return err
	}
	if err := r.writePageNumScript(site); err != nil {
		return fmt.Errorf("failed to write page number script: %w", err)
	}

	r.logger.Info("site rendered", "pages", len(pages), "figures", len(site.Figures.All()), "dest", r.opts.DestDir)
	return nil
}

// prepareDest applies the output policy: an existing build is only
// replaced when overwrite is set.
func (r *Renderer) prepareDest() error {
	if !utils.DirExists(r.opts.Fs, r.opts.DestDir) {
		return nil
	}
	if !r.cfg.Build.Overwrite {
		return siteerr.Fatalf(siteerr.ErrOutputExists, "%s (set build.overwrite to replace it)", r.opts.DestDir)
	}
	r.logger.Debug("removing previous build", "dir", r.opts.DestDir)
	return utils.RemoveAll(r.opts.Fs, r.opts.DestDir)
}

// outPath maps a site location to a file below DestDir.
func (r *Renderer) outPath(loc location.Location) string {
	return filepath.Join(r.opts.DestDir, filepath.FromSlash(strings.TrimPrefix(loc.String(), "/")))
}

func (r *Renderer) write(loc location.Location, mediatype string, content []byte) error {
	if r.minifier != nil && mediatype != "" {
		out, err := r.minifier.Bytes(mediatype, content)
		if err != nil {
			return fmt.Errorf("failed to minify %s: %w", loc, err)
		}
		content = out
	}
	return utils.WriteFile(r.opts.Fs, r.outPath(loc), content)
}

func (r *Renderer) writePage(loc location.Location, template string, data *pageData) error {
	out, err := r.templates.Render(template, data)
	if err != nil {
		return err
	}
	return r.write(loc, "text/html", []byte(out))
}

func (r *Renderer) baseData(site *models.Site, hrefs models.Hrefs, current models.NodeID, loc location.Location) *pageData {
	return &pageData{
		SiteTitle:  r.cfg.Site.Title,
		PathToRoot: pathToRoot(loc),
		Nav:        buildNav(site, hrefs, current),
	}
}

func (r *Renderer) renderIndex(site *models.Site) error {
	root := site.Node(site.Root())
	hrefs, err := site.ResolveHrefs(root.Location)
	if err != nil {
		return err
	}

	data := r.baseData(site, hrefs, models.NoNode, root.Location)
	data.Kind = "index"
	data.Chapters = data.Nav

	if r.cfg.Site.Intro != "" {
		src, err := utils.ReadToString(r.opts.Source, r.cfg.Site.Intro)
		if err != nil {
			return err
		}
		intro, err := convertMarkdown(r.markdown, src)
		if err != nil {
			return err
		}
		data.Content = raymond.SafeString(intro)
	}
	return r.writePage(root.Location, "index", data)
}

// renderPage renders one page with the template of its kind. Pages of a
// module that failed validation only show a failure notice.
func (r *Renderer) renderPage(site *models.Site, rw *rewrite.Rewriter, id models.NodeID) error {
	n := site.Node(id)
	hrefs, err := site.ResolveHrefs(n.Location)
	if err != nil {
		return err
	}

	data := r.baseData(site, hrefs, id, n.Location)
	data.Title = n.Name
	data.Kind = n.Page.Kind.String()
	if chID := site.Ancestor(id, models.ChapterNode); chID != models.NoNode {
		data.ChapterName = site.Node(chID).Name
	}
	mod := site.Node(site.Ancestor(id, models.ModuleNode))
	data.ModuleName = mod.Name
	data.Author = mod.Author
	if data.Pagination, err = buildPagination(site, n); err != nil {
		return err
	}

	if mod.Failure != nil {
		r.logger.Warn("rendering failure notice", "page", n.Location.String(), "module", mod.ShortName)
		data.Failure = mod.Failure.Error()
		return r.writePage(n.Location, "failed", data)
	}

	var template string
	switch n.Page.Kind {
	case models.TextPage:
		template, err = "text", r.textPage(site, rw, n, data)
	case models.PrimerPage:
		template, err = "primer", r.primerPage(site, rw, n, data)
	case models.ExcavationPage:
		template, err = "excavation", r.excavationPage(site, rw, n, data)
	case models.AppendixAPage, models.AppendixBPage:
		template, err = "appendix", r.appendixPage(site, n, data)
	default:
		err = fmt.Errorf("unknown page kind %s", n.Page.Kind)
	}
	if err != nil {
		return err
	}
	r.logger.Debug("rendering page", "page", n.Location.String(), "kind", data.Kind)
	return r.writePage(n.Location, template, data)
}

// imageHref resolves an old image path for the page at from. Images that
// were never registered take their conventional place below /imgs.
func imageHref(site *models.Site, oldPath string, from location.Location) string {
	if oldPath == "" {
		return ""
	}
	loc, ok := site.Paths.Lookup(oldPath)
	if !ok {
		loc = models.ImageLocation(oldPath)
	}
	return location.Rel(loc, from).String()
}

// oldTarget roots href in the old path space of the page at pageOld.
func oldTarget(href, pageOld string) string {
	if strings.HasPrefix(href, "/") || pageOld == "" {
		return path.Clean("/" + href)
	}
	return path.Join(path.Dir(path.Clean("/"+pageOld)), href)
}
