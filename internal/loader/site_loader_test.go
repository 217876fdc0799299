package loader

import (
	"testing"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) (*models.Site, *SiteLoader) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)

	sl := NewSiteLoader(fsys, testutil.SampleConfig(), nil)
	site, err := sl.Load()
	require.NoError(t, err)
	return site, sl
}

func chapterNames(site *models.Site) []string {
	var names []string
	for _, id := range site.Node(site.Root()).Children {
		names = append(names, site.Node(id).Name)
	}
	return names
}

func TestLoadSampleSite(t *testing.T) {
	site, sl := loadSample(t)
	assert.Empty(t, sl.Failures())
	assert.False(t, site.Assembled())

	assert.Equal(t, []string{
		"Archaeology Primer", "Introduction", "Background", "Excavations", "Appendix A", "Electronic Dig",
	}, chapterNames(site))

	tests := []struct {
		old  string
		want location.Location
	}{
		{"/html/part0/body0_1.html", "/html/introduction/prelims_01_foreword.html"},
		{"/html/part0/body0_2a.html", "/html/introduction/prelims_03_funding.html"},
		{"/html/part0", "/html/introduction/prelims_01_foreword.html"},
		{"/html/part2/body2_2.html", "/html/background/002_the_river.html"},
		{"/html/primer/primer2.html", "/html/archaeologyprimer/ap_02_stages.html"},
		{"/html/excavations/exc_f1.html", "/html/excavations/003_feature_1.html"},
		{"/html/descriptions/desc1.html", "/html/excavations/003_feature_1.html"},
		{"/html/excavations/exc_sq.html", "/html/excavations/sq_240r60.html"},
		{"/html/images/2/210r100.gif", "/imgs/2/210r100.gif"},
		{"/html/images/slid_210.html", "/html/figures/figure_0012.html"},
	}
	for _, tt := range tests {
		got, ok := site.Paths.Lookup(tt.old)
		assert.True(t, ok, tt.old)
		assert.Equal(t, tt.want, got, tt.old)
	}

	entity, ok := site.Paths.Entity("/html/part2/body2_1.html")
	require.True(t, ok)
	assert.Equal(t, "The Land", site.Node(entity).Name)
}

func TestLoadChapterLocationsFollowFirstPage(t *testing.T) {
	site, _ := loadSample(t)

	var intro, excavations, external *models.Node
	for _, id := range site.Node(site.Root()).Children {
		n := site.Node(id)
		switch n.Name {
		case "Introduction":
			intro = n
		case "Excavations":
			excavations = n
		case "Electronic Dig":
			external = n
		}
	}
	require.NotNil(t, intro)
	assert.Equal(t, location.Location("/html/introduction/prelims_01_foreword.html"), intro.Location)

	require.NotNil(t, excavations)
	require.Len(t, excavations.Children, 2)
	assert.Equal(t, "Features", site.Node(excavations.Children[0]).Name)
	assert.Equal(t, "Squares", site.Node(excavations.Children[1]).Name)

	require.NotNil(t, external)
	assert.True(t, external.Location.IsExternal())
}

func TestLoadSubsectionsBelongToModule(t *testing.T) {
	site, _ := loadSample(t)

	id, ok := site.Paths.Entity("/html/part0/body0_2a.html")
	require.True(t, ok)
	sub := site.Node(id)
	assert.Equal(t, models.ModuleNode, site.Node(sub.Parent).Kind)
	assert.Equal(t, "Front Matter", site.Node(sub.Parent).ShortName)

	parentPage, ok := site.Paths.Entity("/html/part0/body0_2.html")
	require.True(t, ok)
	assert.Contains(t, site.Node(parentPage).Children, id)
}

func TestLoadPaginationAcrossChapters(t *testing.T) {
	site, _ := loadSample(t)
	site.FinishAssembly()

	next, err := site.Pages.Next("iii")
	require.NoError(t, err)
	assert.Equal(t, location.Location("/html/archaeologyprimer/ap_01_what_is_archaeology.html"), next)

	next, err = site.Pages.Next("AP2")
	require.NoError(t, err)
	assert.Equal(t, location.Location("/html/background/001_the_land.html"), next)

	prev, err := site.Pages.Prev("1")
	require.NoError(t, err)
	assert.Equal(t, location.Location("/html/archaeologyprimer/ap_02_stages.html"), prev)

	next, err = site.Pages.Next("3")
	require.NoError(t, err)
	assert.Equal(t, location.Location("/html/appendixa/apxa_001_feature_1.html"), next)
}

func TestLoadPageContent(t *testing.T) {
	site, _ := loadSample(t)

	id, ok := site.Paths.Entity("/html/primer/primer1.html")
	require.True(t, ok)
	page := site.Node(id).Page
	require.NotNil(t, page)
	assert.Equal(t, models.PrimerPage, page.Kind)
	require.NotNil(t, page.Image)
	assert.Equal(t, "/html/images/3/plate1.jpg", page.Image.OldPath)
	assert.Contains(t, page.Blocks[0].Content, `data-is-primer="yes"`)
	assert.Contains(t, page.Blocks[0].Content, `href="/html/video/trowel.mp4"`)

	id, ok = site.Paths.Entity("/html/primer/primer2.html")
	require.True(t, ok)
	block := site.Node(id).Page.Blocks[0]
	assert.Equal(t, "ul", block.Type)
	assert.Equal(t, "/html/images/2/210r100.gif", block.Toggles["primer2a.html"].OldPath)

	id, ok = site.Paths.Entity("/html/excavations/exc_f1.html")
	require.True(t, ok)
	exc := site.Node(id).Page.Excavation
	require.NotNil(t, exc)
	assert.Equal(t, "Pit", exc.Type)
	assert.Equal(t, "2.1 ft", exc.Dimensions.Length)
	assert.Equal(t, []int{12}, exc.Figures)

	fig, ok := site.Figures.ByNumber(12)
	require.True(t, ok)
	require.Len(t, fig.Areas, 1)
	assert.Equal(t, "/html/excavations/exc_f1.html", fig.Areas[0].OldHref)

	c, ok := site.References.ByLetters("ab")
	require.True(t, ok)
	assert.Equal(t, "Dickens", c.Author)

	table, ok := site.DataTables.ByOldPath("/html/tables/table3.html")
	require.True(t, ok)
	assert.Equal(t, "Pottery counts", table.Caption)
}

func TestLoadAppendix(t *testing.T) {
	site, _ := loadSample(t)

	var appendix *models.Node
	_ = site.Walk(func(n *models.Node) error {
		if n.Kind == models.PageNode && n.Page.Kind == models.AppendixAPage {
			appendix = n
		}
		return nil
	})
	require.NotNil(t, appendix)
	assert.Equal(t, "Appendix A 1", appendix.Page.PageNum)
	assert.Equal(t, "/html/excavations/exc_f1.html", appendix.Page.Appendix.ElementPath)
	require.Len(t, appendix.Page.Appendix.Rows, 2)
	assert.Equal(t, 3, appendix.Page.Appendix.Rows[1].Count)
}

func TestLoadMissingRequiredChapter(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.Chapters = append(cfg.Chapters, config.ChapterConfig{
		Name: "Contents", Kind: config.TextChapter, Input: "part1.json", Dir: "contents",
	})

	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)
	_, err := NewSiteLoader(fsys, cfg, nil).Load()
	assert.ErrorContains(t, err, "part1.json")
}

func TestLoadDuplicateSection(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.Chapters = []config.ChapterConfig{{Name: "Intro", Kind: config.TextChapter, Input: "dup.json", Dir: "intro"}}

	fsys := testutil.MemFS(t, map[string]string{"data/dup.json": `{
  "path": "/html/part0",
  "modules": [{"module": {"path": "/m", "shortTitle": "M", "fullTitle": "M", "author": "", "sections": [
    {"name": "One", "path": "/html/part0/a.html", "pageNum": "1", "subsections": []},
    {"name": "Two", "path": "/html/part0/a.html", "pageNum": "2", "subsections": []}
  ]}}],
  "pages": {"1": {"content": []}, "2": {"content": []}}
}`})

	_, err := NewSiteLoader(fsys, cfg, nil).Load()
	assert.ErrorIs(t, err, siteerr.ErrDuplicateSection)
	assert.True(t, siteerr.IsFatal(err))
}

func TestLoadMissingPage(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.Chapters = []config.ChapterConfig{{Name: "Intro", Kind: config.TextChapter, Input: "gap.json", Dir: "intro"}}

	fsys := testutil.MemFS(t, map[string]string{"data/gap.json": `{
  "path": "/html/part0",
  "modules": [{"module": {"path": "/m", "shortTitle": "M", "fullTitle": "M", "author": "", "sections": [
    {"name": "One", "path": "/html/part0/a.html", "pageNum": "7", "subsections": []}
  ]}}],
  "pages": {}
}`})

	_, err := NewSiteLoader(fsys, cfg, nil).Load()
	assert.ErrorIs(t, err, siteerr.ErrMissingPage)
}

func TestLoadInconsistentModuleIsValidationFailure(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.Chapters = []config.ChapterConfig{{Name: "Intro", Kind: config.TextChapter, Input: "odd.json", Dir: "intro"}}

	fsys := testutil.MemFS(t, map[string]string{"data/odd.json": `{
  "path": "/html/part0",
  "modules": [{"module": {"path": "/m", "shortTitle": "M", "fullTitle": "M", "author": "", "sections": [
    {"name": "One", "path": "/html/part0/a.html", "pageNum": "1", "subsections": []},
    {"name": "Two", "path": "/html/part0/b.html", "pageNum": "2", "subsections": []}
  ]}}],
  "pages": {
    "1": {"parentModuleShortTitle": "M", "content": []},
    "2": {"parentModuleShortTitle": "Other", "content": []}
  }
}`})

	sl := NewSiteLoader(fsys, cfg, nil)
	site, err := sl.Load()
	require.NoError(t, err)
	require.Len(t, sl.Failures(), 1)
	assert.Equal(t, siteerr.ValidationFailed, siteerr.KindOf(sl.Failures()[0]))
	assert.ErrorIs(t, sl.Failures()[0], siteerr.ErrInconsistentModule)

	id, ok := site.Paths.Entity("/html/part0/a.html")
	require.True(t, ok)
	assert.Error(t, site.Node(site.Node(id).Parent).Failure)
}

func TestRegisterImagesFromDigDir(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.Chapters = []config.ChapterConfig{{Name: "Elsewhere", Kind: config.ExternalChapter, URL: "https://example.org/"}}
	cfg.Input.DigDir = "dig"

	fsys := testutil.MemFS(t, map[string]string{
		"dig/html/images/4/map.gif":   "GIF89a",
		"dig/html/images/4/.DS_Store": "",
	})
	site, err := NewSiteLoader(fsys, cfg, nil).Load()
	require.NoError(t, err)

	got, ok := site.Paths.Lookup("/html/images/4/map.gif")
	require.True(t, ok)
	assert.Equal(t, location.Location("/imgs/4/map.gif"), got)
	_, ok = site.Paths.Lookup("/html/images/4/.DS_Store")
	assert.False(t, ok)
}

func TestMatchDescription(t *testing.T) {
	sections := []sectionDoc{{Name: "Feature 10"}, {Name: "Burial 1 (Feature 2)"}, {Name: "Feature 1"}}

	got := matchDescription("Feature 1", sections)
	require.NotNil(t, got)
	assert.Equal(t, "Feature 1", got.Name)

	got = matchDescription("Burial 1", sections)
	require.NotNil(t, got)
	assert.Equal(t, "Burial 1 (Feature 2)", got.Name)

	assert.Nil(t, matchDescription("Structure 3", sections))
}
