package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/loader"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontendDir = "../../frontend"

func loadSite(t *testing.T, fsys afero.Fs, cfg *config.Config) *models.Site {
	t.Helper()
	site, err := loader.NewSiteLoader(fsys, cfg, nil).Load()
	require.NoError(t, err)
	site.FinishAssembly()
	return site
}

func newRenderer(t *testing.T, fsys afero.Fs, cfg *config.Config) *Renderer {
	t.Helper()
	r, err := New(Options{
		Fs:      fsys,
		Source:  fsys,
		DestDir: cfg.Build.BuildDir,
		Config:  cfg,
		Assets:  os.DirFS(frontendDir),
	})
	require.NoError(t, err)
	return r
}

// renderSample renders the sample site after applying edit to its input.
func renderSample(t *testing.T, edit func(fsys afero.Fs, cfg *config.Config)) (afero.Fs, error) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)
	cfg := testutil.SampleConfig()
	if edit != nil {
		edit(fsys, cfg)
	}
	site := loadSite(t, fsys, cfg)
	return fsys, newRenderer(t, fsys, cfg).Render(site)
}

func output(t *testing.T, fsys afero.Fs, loc string) string {
	t.Helper()
	return testutil.ReadFile(t, fsys, filepath.Join("out", filepath.FromSlash(strings.TrimPrefix(loc, "/"))))
}

func replaceInput(t *testing.T, fsys afero.Fs, name, old, new string) {
	t.Helper()
	p := filepath.Join(testutil.SampleInputDir, name)
	content := testutil.ReadFile(t, fsys, p)
	require.Contains(t, content, old)
	testutil.WriteFile(t, fsys, p, strings.Replace(content, old, new, 1))
}

func TestRenderWritesSite(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	for _, p := range []string{
		"out/html/index.html",
		"out/html/introduction/prelims_01_foreword.html",
		"out/html/introduction/prelims_02_acknowledgments.html",
		"out/html/introduction/prelims_03_funding.html",
		"out/html/background/001_the_land.html",
		"out/html/background/002_the_river.html",
		"out/html/archaeologyprimer/ap_01_what_is_archaeology.html",
		"out/html/archaeologyprimer/ap_02_stages.html",
		"out/html/excavations/003_feature_1.html",
		"out/html/excavations/sq_240r60.html",
		"out/html/appendixa/apxa_001_feature_1.html",
		"out/html/figures/figure_0007.html",
		"out/html/figures/figure_0012.html",
		"out/html/js/page-num-navigation.js",
		"out/html/js/load-modals.js",
		"out/html/css/style.css",
	} {
		assert.True(t, testutil.FileExists(t, fsys, p), p)
	}
	assert.False(t, testutil.FileExists(t, fsys, "out/html/templates/text.hbs"))
	assert.False(t, testutil.FileExists(t, fsys, "out/html/js/page-num-navigation-template.js"))
}

func TestRenderRewritesContentLinks(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	foreword := output(t, fsys, "/html/introduction/prelims_01_foreword.html")
	assert.Contains(t, foreword, `<a href="../background/001_the_land.html">the land</a>`)
	assert.Contains(t, foreword, `class="a-ref"`)
	assert.Contains(t, foreword, `data-author="Dickens"`)
	assert.Contains(t, foreword, `data-ref-text="Dickens 1987. Occaneechi Town."`)

	figure := output(t, fsys, "/html/introduction/prelims_02_acknowledgments.html")
	assert.Contains(t, figure, `class="a-img"`)
	assert.Contains(t, figure, `data-src="../../imgs/2/210r100.gif"`)
	assert.Contains(t, figure, `<p class="italic-title"><i>Thanks</i></p>`)

	funding := output(t, fsys, "/html/introduction/prelims_03_funding.html")
	assert.Contains(t, funding, `href="../../video/trowel.mp4"`)

	land := output(t, fsys, "/html/background/001_the_land.html")
	assert.Contains(t, land, `class="a-table"`)
	assert.Contains(t, land, `data-table-header="&lt;b&gt;Table 3&lt;/b&gt;. Pottery counts"`)

	river := output(t, fsys, "/html/background/002_the_river.html")
	assert.Contains(t, river, `href="../introduction/prelims_01_foreword.html#top"`)
	assert.Contains(t, river, `data-target="#versionModal"`)
	assert.Contains(t, river, `href="https://electronicdig.sites.oasis.unc.edu"`)
}

func TestRenderNavAndPagination(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	land := output(t, fsys, "/html/background/001_the_land.html")
	assert.Contains(t, land, `href="../archaeologyprimer/ap_02_stages.html">&laquo; Previous</a>`)
	assert.Contains(t, land, `href="002_the_river.html">Next &raquo;</a>`)
	assert.Contains(t, land, `<span id="pageNumClickable" class="page-num" tabindex="0" title="Go to page">1</span>`)
	assert.Contains(t, land, `<li class="section active">`)
	assert.Contains(t, land, `<a href="001_the_land.html">The Land</a>`)
	assert.NotContains(t, land, `href="."`)
	assert.Contains(t, land, `<a href="../introduction/prelims_01_foreword.html">Introduction</a>`)
	assert.Contains(t, land, `href="https://electronicdig.sites.oasis.unc.edu/" target="_blank"`)
	assert.Contains(t, land, `href="../css/style.css"`)
	assert.Contains(t, land, `src="../js/page-num-navigation.js"`)

	// Elements without a description page have no page number.
	square := output(t, fsys, "/html/excavations/sq_240r60.html")
	assert.NotContains(t, square, "pageNumClickable")
	assert.NotContains(t, square, "page-num-navigation.js")
}

func TestRenderPrimerPage(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	first := output(t, fsys, "/html/archaeologyprimer/ap_01_what_is_archaeology.html")
	assert.Contains(t, first, `class="a-video"`)
	assert.Contains(t, first, `data-figure-path="../../video/trowel.mp4"`)
	assert.Contains(t, first, `data-figure-caption="Trowelling"`)
	assert.NotContains(t, first, "data-is-primer")
	assert.Contains(t, first, `src="../../imgs/3/plate1.jpg"`)

	stages := output(t, fsys, "/html/archaeologyprimer/ap_02_stages.html")
	assert.Contains(t, stages, `href="javascript:void(0);"`)
	assert.Contains(t, stages, `data-image-path="../../imgs/2/210r100.gif"`)
	assert.Contains(t, stages, `data-no-image-caption="Click on a stage."`)
	assert.Contains(t, stages, `href="../background/001_the_land.html">Next &raquo;</a>`)
}

func TestRenderExcavationAndAppendix(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	feature := output(t, fsys, "/html/excavations/003_feature_1.html")
	assert.Contains(t, feature, `<a href="sq_240r60.html">the square</a>`)
	assert.Contains(t, feature, `<a href="../figures/figure_0012.html">`)
	assert.Contains(t, feature, `src="../../imgs/x/f1map.gif"`)
	assert.Contains(t, feature, `<td>Pit</td>`)
	// The artifacts page was never migrated.
	assert.NotContains(t, feature, "artifacts-link")

	appendix := output(t, fsys, "/html/appendixa/apxa_001_feature_1.html")
	assert.Contains(t, appendix, `<a class="element-link" href="../excavations/003_feature_1.html">Feature 1</a>`)
	assert.Contains(t, appendix, `<td>Sherd</td>`)
	assert.Contains(t, appendix, `<td class="text-right">17</td>`)
}

func TestRenderFigurePages(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	fig := output(t, fsys, "/html/figures/figure_0012.html")
	assert.Contains(t, fig, `src="../../imgs/2/210r100.gif"`)
	assert.Contains(t, fig, `coords="1,2,30,40"`)
	assert.Contains(t, fig, `href="../excavations/003_feature_1.html"`)
	assert.Contains(t, fig, `<b>Figure 12</b>. Square 210R100`)

	plain := output(t, fsys, "/html/figures/figure_0007.html")
	assert.NotContains(t, plain, "usemap")
}

func TestRenderPageNumScript(t *testing.T) {
	fsys, err := renderSample(t, nil)
	require.NoError(t, err)

	script := output(t, fsys, PageNumScript.String())
	assert.NotContains(t, script, pageNumPlaceholder)
	assert.Contains(t, script, `"i":"introduction/prelims_01_foreword.html"`)
	assert.Contains(t, script, `"3":"excavations/003_feature_1.html"`)
	assert.Contains(t, script, `"AP2":"archaeologyprimer/ap_02_stages.html"`)
	assert.Contains(t, script, `"Appendix A 1":"appendixa/apxa_001_feature_1.html"`)
}

func TestRenderIndexIntro(t *testing.T) {
	fsys, err := renderSample(t, func(fsys afero.Fs, cfg *config.Config) {
		cfg.Site.Intro = "intro.md"
		testutil.WriteFile(t, fsys, "intro.md", "# Welcome\n\n> [!NOTE]\n> Start with the primer.\n")
	})
	require.NoError(t, err)

	index := output(t, fsys, "/html/index.html")
	assert.Contains(t, index, `<h1 id="welcome"><a class="header" href="#welcome">Welcome</a></h1>`)
	assert.Contains(t, index, `<div class="alert alert-info" role="alert">`)
	assert.Contains(t, index, `<a class="card-link" href="introduction/prelims_01_foreword.html">Introduction</a>`)
	assert.Contains(t, index, `href="./css/style.css"`)
}

func TestRenderRequiresAssembly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)
	cfg := testutil.SampleConfig()
	site, err := loader.NewSiteLoader(fsys, cfg, nil).Load()
	require.NoError(t, err)

	err = newRenderer(t, fsys, cfg).Render(site)
	require.Error(t, err)
	assert.True(t, siteerr.IsFatal(err))
	assert.ErrorIs(t, err, siteerr.ErrAssemblyIncomplete)
	assert.False(t, testutil.FileExists(t, fsys, "out/html/index.html"))
}

func TestRenderOutputPolicy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)
	testutil.WriteFile(t, fsys, "out/stale.html", "old")
	cfg := testutil.SampleConfig()

	err := newRenderer(t, fsys, cfg).Render(loadSite(t, fsys, cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, siteerr.ErrOutputExists)

	cfg.Build.Overwrite = true
	require.NoError(t, newRenderer(t, fsys, cfg).Render(loadSite(t, fsys, cfg)))
	assert.False(t, testutil.FileExists(t, fsys, "out/stale.html"))
	assert.True(t, testutil.FileExists(t, fsys, "out/html/index.html"))
}

func TestRenderFailedModuleNotice(t *testing.T) {
	fsys, err := renderSample(t, func(fsys afero.Fs, cfg *config.Config) {
		replaceInput(t, fsys, "part2.json",
			`"2": {"pageTitle": "The River", "parentModuleShortTitle": "Land"`,
			`"2": {"pageTitle": "The River", "parentModuleShortTitle": "Water"`)
	})
	require.NoError(t, err)

	for _, loc := range []string{"/html/background/001_the_land.html", "/html/background/002_the_river.html"} {
		page := output(t, fsys, loc)
		assert.Contains(t, page, "This section could not be generated.", loc)
		assert.Contains(t, page, "pageNumClickable", loc)
	}
	foreword := output(t, fsys, "/html/introduction/prelims_01_foreword.html")
	assert.NotContains(t, foreword, "could not be generated")
}

func TestRenderUnclassifiedLinkAborts(t *testing.T) {
	fsys, err := renderSample(t, func(in afero.Fs, cfg *config.Config) {
		replaceInput(t, in, "part2.json", "/html/version.html", "/html/nowhere/x.html")
	})
	require.Error(t, err)
	assert.True(t, siteerr.IsFatal(err))
	assert.ErrorIs(t, err, siteerr.ErrUnclassifiedLink)
	assert.Contains(t, err.Error(), "/html/nowhere/x.html")

	assert.True(t, testutil.FileExists(t, fsys, "out/html/background/001_the_land.html"))
	assert.False(t, testutil.FileExists(t, fsys, "out/html/background/002_the_river.html"))
}

func TestRenderMissingFigureIsFatal(t *testing.T) {
	_, err := renderSample(t, func(fsys afero.Fs, cfg *config.Config) {
		replaceInput(t, fsys, "excavationsElements.json", `"images": [{"figureNum": 12}]`, `"images": [{"figureNum": 99}]`)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, siteerr.ErrFigureNotFound))
}

func TestRenderMinify(t *testing.T) {
	plain, err := renderSample(t, nil)
	require.NoError(t, err)
	minified, err := renderSample(t, func(fsys afero.Fs, cfg *config.Config) {
		cfg.Build.Minify = true
	})
	require.NoError(t, err)

	loc := "/html/background/001_the_land.html"
	assert.Less(t, len(output(t, minified, loc)), len(output(t, plain, loc)))
	assert.Contains(t, output(t, minified, PageNumScript.String()), "introduction/prelims_01_foreword.html")
}

func TestPathToRoot(t *testing.T) {
	assert.Equal(t, "./", pathToRoot(models.IndexLocation))
	assert.Equal(t, "../", pathToRoot(location.Location("/html/background/001_the_land.html")))
}

func TestTemplateSetIsScoped(t *testing.T) {
	// Helpers and partials are registered per template, so loading twice
	// must not panic on duplicate registration.
	a, err := LoadTemplateSet(os.DirFS(frontendDir))
	require.NoError(t, err)
	b, err := LoadTemplateSet(os.DirFS(frontendDir))
	require.NoError(t, err)
	assert.Equal(t, a.Names(), b.Names())
	assert.Contains(t, a.Names(), "text")

	_, err = a.Render("missing", nil)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":     "hello-world",
		"  Trim -- me  ":    "trim-me",
		"Café au lait!":     "café-au-lait",
		"Feature_12 Burial": "feature_12-burial",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in))
	}
}

func TestConvertMarkdownHeadings(t *testing.T) {
	md := "# Title\n\n## Section <em>One</em>\n\n## Title\n\nParagraph.\n"
	html, err := convertMarkdown(newMarkdown(), md)
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 id="title"><a class="header" href="#title">Title</a></h1>`)
	assert.Contains(t, html, `id="section-one"`)
	assert.Contains(t, html, `<h2 id="title-1">`)
}
