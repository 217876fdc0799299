package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/location"
	"github.com/geocine/digsite/internal/models"
	"github.com/spf13/afero"
)

// SiteLoader assembles the site tree from the extracted JSON documents
type SiteLoader struct {
	fs     afero.Fs
	cfg    *config.Config
	logger *slog.Logger

	site     *models.Site
	failures []error
}

// NewSiteLoader creates a loader reading input from fsys
func NewSiteLoader(fsys afero.Fs, cfg *config.Config, logger *slog.Logger) *SiteLoader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SiteLoader{fs: fsys, cfg: cfg, logger: logger}
}

// Load builds the site tree and fills every lookup table. The returned
// site is still in assembly; callers finish it before rendering.
func (sl *SiteLoader) Load() (*models.Site, error) {
	sl.site = models.NewSite(models.IndexLocation, sl.cfg.Build.ChapterLinking)
	sl.failures = nil

	steps := []struct {
		name string
		fn   func() error
	}{
		{"images", sl.registerImages},
		{"figures", sl.loadFigures},
		{"references", sl.loadReferences},
		{"tables", sl.loadDataTables},
		{"videos", sl.loadVideos},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", step.name, err)
		}
	}

	for _, ch := range sl.cfg.ChapterList() {
		if err := sl.loadChapter(ch); err != nil {
			return nil, fmt.Errorf("failed to load chapter %q: %w", ch.Name, err)
		}
	}

	sl.logger.Info("site assembled",
		"nodes", sl.site.Len(),
		"paths", sl.site.Paths.Len(),
		"failures", len(sl.failures))
	return sl.site, nil
}

// Failures returns the validation failures recorded by the last Load.
func (sl *SiteLoader) Failures() []error {
	return sl.failures
}

func (sl *SiteLoader) loadChapter(ch config.ChapterConfig) error {
	if ch.Kind == config.ExternalChapter {
		id := sl.site.NewChapter(ch.Name, "", location.Location(ch.URL))
		sl.site.AddChild(sl.site.Root(), id)
		return nil
	}

	if !sl.inputExists(ch.Input) {
		if ch.Optional {
			sl.logger.Warn("optional chapter skipped, input missing", "chapter", ch.Name, "input", ch.Input)
			return nil
		}
		return fmt.Errorf("input %s not found in %s", ch.Input, sl.cfg.Input.Dir)
	}

	sl.logger.Debug("loading chapter", "chapter", ch.Name, "kind", ch.Kind, "input", ch.Input)
	switch ch.Kind {
	case config.TextChapter:
		var doc textChapterDoc
		if err := sl.readJSON(ch.Input, &doc); err != nil {
			return err
		}
		return sl.loadTextChapter(ch, &doc)
	case config.PrimerChapter:
		var doc primerChapterDoc
		if err := sl.readJSON(ch.Input, &doc); err != nil {
			return err
		}
		return sl.loadPrimerChapter(ch, &doc)
	case config.ExcavationChapter:
		var elements []elementDoc
		if err := sl.readJSON(ch.Input, &elements); err != nil {
			return err
		}
		var desc descriptionsDoc
		if err := sl.readJSON(ch.Descriptions, &desc); err != nil {
			return err
		}
		return sl.loadExcavationChapter(ch, elements, &desc)
	case config.AppendixAChapter, config.AppendixBChapter:
		var docs map[string]appendixDoc
		if err := sl.readJSON(ch.Input, &docs); err != nil {
			return err
		}
		return sl.loadAppendixChapter(ch, docs)
	default:
		return fmt.Errorf("unknown chapter kind %q", ch.Kind)
	}
}

// chapterDir is the output directory of a chapter's pages.
func chapterDir(ch config.ChapterConfig) location.Location {
	return models.HTMLRoot.Join(ch.Dir)
}

func (sl *SiteLoader) inputPath(name string) string {
	return filepath.Join(sl.cfg.Input.Dir, name)
}

func (sl *SiteLoader) inputExists(name string) bool {
	ok, err := afero.Exists(sl.fs, sl.inputPath(name))
	return err == nil && ok
}

func (sl *SiteLoader) readJSON(name string, v any) error {
	p := sl.inputPath(name)
	data, err := afero.ReadFile(sl.fs, p)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", p, err)
	}
	return nil
}

// readOptionalJSON reads name into v. It reports false when the file does
// not exist.
func (sl *SiteLoader) readOptionalJSON(name string, v any) (bool, error) {
	err := sl.readJSON(name, v)
	if errors.Is(err, fs.ErrNotExist) {
		sl.logger.Debug("optional input missing", "file", name)
		return false, nil
	}
	return err == nil, err
}
