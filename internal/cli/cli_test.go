package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBuild(t *testing.T) (afero.Fs, BuildOptions) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	testutil.SampleSite(t, fsys)
	return fsys, BuildOptions{
		Fs:     fsys,
		Config: testutil.SampleConfig(),
		Assets: os.DirFS("../../frontend"),
	}
}

func TestBuild(t *testing.T) {
	fsys, opts := sampleBuild(t)
	opts.Check = true

	result, err := Build(opts)
	require.NoError(t, err)

	assert.Equal(t, "out", result.DestDir)
	assert.Equal(t, 10, result.Pages)
	assert.Empty(t, result.Failures)
	assert.True(t, testutil.FileExists(t, fsys, "out/html/index.html"))
	assert.True(t, testutil.FileExists(t, fsys, "out/html/excavations/003_feature_1.html"))

	require.NotNil(t, result.Report)
	assert.Greater(t, result.Report.Pages, result.Pages)
	for _, p := range result.Report.Problems {
		assert.False(t, strings.HasSuffix(p.Href, ".html"), "broken page link: %s", p)
	}
}

func TestBuildCheckLinksFromConfig(t *testing.T) {
	_, opts := sampleBuild(t)
	result, err := Build(opts)
	require.NoError(t, err)
	assert.Nil(t, result.Report)

	_, opts = sampleBuild(t)
	opts.Config.Set("build.check-links", "true")
	result, err = Build(opts)
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Positive(t, result.Report.Anchors)
}

func TestBuildLogsValidationFailureOnce(t *testing.T) {
	fsys, opts := sampleBuild(t)
	testutil.WriteFile(t, fsys, "data/appendixB.json", `{
  "path": "/html/appendixb",
  "modules": [{"module": {"path": "/m", "shortTitle": "M", "fullTitle": "M", "author": "", "sections": [
    {"name": "One", "path": "/html/appendixb/a.html", "pageNum": "Appendix B 1", "subsections": []},
    {"name": "Two", "path": "/html/appendixb/b.html", "pageNum": "Appendix B 2", "subsections": []}
  ]}}],
  "pages": {
    "Appendix B 1": {"parentModuleShortTitle": "M", "content": []},
    "Appendix B 2": {"parentModuleShortTitle": "Other", "content": []}
  }
}`)
	opts.Config.Chapters = append(opts.Config.Chapters, config.ChapterConfig{
		Name: "Appendix B", Kind: config.TextChapter, Input: "appendixB.json", Dir: "appendixb",
	})
	var logs bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	result, err := Build(opts)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0], siteerr.ErrInconsistentModule)
	assert.Equal(t, 1, strings.Count(logs.String(), "module failed validation"))
}

func TestBuildRefusesExistingOutput(t *testing.T) {
	_, opts := sampleBuild(t)
	_, err := Build(opts)
	require.NoError(t, err)

	_, err = Build(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, siteerr.ErrOutputExists)
	assert.True(t, siteerr.IsFatal(err))

	opts.Config.Build.Overwrite = true
	_, err = Build(opts)
	assert.NoError(t, err)
}

func TestBuildMissingInput(t *testing.T) {
	_, err := Build(BuildOptions{
		Fs:     afero.NewMemMapFs(),
		Config: testutil.SampleConfig(),
		Assets: os.DirFS("../../frontend"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part0.json")
}

func TestClean(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"out/html/index.html":   "12345",
		"out/html/js/script.js": "123",
		"data/part0.json":       "{}",
	})

	summary, err := Clean(fsys, "out")
	require.NoError(t, err)
	assert.Equal(t, CleanSummary{Removed: true, Files: 2, Dirs: 2, Bytes: 8}, summary)
	assert.False(t, testutil.FileExists(t, fsys, "out/html/index.html"))
	assert.True(t, testutil.FileExists(t, fsys, "data/part0.json"))

	summary, err = Clean(fsys, "out")
	require.NoError(t, err)
	assert.False(t, summary.Removed)
}

func TestInit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, Init(fsys, InitOptions{Dir: "dig", Title: "Occaneechi"}))

	content := testutil.ReadFile(t, fsys, filepath.Join("dig", ConfigFile))
	cfg, err := config.LoadFromString(content)
	require.NoError(t, err)
	assert.Equal(t, "Occaneechi", cfg.Site.Title)
	assert.Equal(t, "intro.md", cfg.Site.Intro)
	assert.Equal(t, "data", cfg.Input.Dir)
	assert.Equal(t, "newdig", cfg.Build.BuildDir)
	assert.True(t, cfg.Build.ChapterLinking)

	ok, err := afero.DirExists(fsys, "dig/data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, testutil.ReadFile(t, fsys, "dig/intro.md"), "# Occaneechi")
	assert.Equal(t, "newdig\n", testutil.ReadFile(t, fsys, "dig/.gitignore"))

	err = Init(fsys, InitOptions{Dir: "dig"})
	assert.ErrorContains(t, err, "already exists")
}

func TestFillInitOptionsInteractive(t *testing.T) {
	opts := InitOptions{Dir: "dig"}
	in := strings.NewReader("\nMy Dig\n\nbuild\n")
	var out bytes.Buffer

	FillInitOptionsInteractive(in, &out, &opts)

	assert.Equal(t, InitOptions{
		Dir:         "dig",
		Title:       "My Dig",
		InputDir:    "data",
		BuildDir:    "build",
		ExternalURL: "https://electronicdig.sites.oasis.unc.edu",
	}, opts)
	assert.Contains(t, out.String(), "Site title [Excavating Occaneechi Town]: ")
}
