package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/geocine/digsite/internal/check"
	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/loader"
	"github.com/geocine/digsite/internal/renderer"
	"github.com/spf13/afero"
)

// BuildOptions configures one build of the site
type BuildOptions struct {
	// Fs holds the input documents and receives the build.
	Fs     afero.Fs
	Config *config.Config
	// Assets is the frontend directory with templates and static files.
	Assets fs.FS
	Logger *slog.Logger
	// Check runs the hyperlink checker after rendering.
	Check bool
}

// BuildResult summarizes a finished build
type BuildResult struct {
	DestDir  string
	Pages    int
	Failures []error
	Report   *check.Report
}

// Build assembles the site from the extracted documents, finishes assembly
// and renders it into the configured build directory.
func Build(opts BuildOptions) (*BuildResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sl := loader.NewSiteLoader(opts.Fs, cfg, logger)
	site, err := sl.Load()
	if err != nil {
		return nil, err
	}
	// The loader logs each failure as it is recorded.
	site.FinishAssembly()

	r, err := renderer.New(renderer.Options{
		Fs:      opts.Fs,
		DestDir: cfg.Build.BuildDir,
		Source:  opts.Fs,
		Config:  cfg,
		Assets:  opts.Assets,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if err := r.Render(site); err != nil {
		return nil, err
	}

	result := &BuildResult{
		DestDir:  cfg.Build.BuildDir,
		Pages:    len(site.PageIDs()),
		Failures: sl.Failures(),
	}
	if opts.Check || cfg.GetBool("build.check-links", cfg.Build.CheckLinks) {
		gateway := cfg.GetString("site.external-url", cfg.Site.ExternalURL)
		result.Report, err = Check(opts.Fs, cfg.Build.BuildDir, gateway, logger)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Check runs the hyperlink checker over an existing build.
func Check(fsys afero.Fs, buildDir, gatewayURL string, logger *slog.Logger) (*check.Report, error) {
	return check.New(fsys, filepath.Join(buildDir, "html"), gatewayURL, logger).Run()
}
