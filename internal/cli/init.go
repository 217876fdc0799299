package cli

import (
	"fmt"
	"path/filepath"

	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/utils"
	"github.com/spf13/afero"
)

// InitOptions captures options for initializing a new migration project
type InitOptions struct {
	Dir         string
	Title       string // default: the built-in site title
	InputDir    string // default: data
	BuildDir    string // default: newdig
	ExternalURL string // default: the Electronic Dig gateway
}

// ConfigFile is the name of the configuration file of a project
const ConfigFile = "digsite.toml"

const introFile = "intro.md"

func (opts *InitOptions) setDefaults() {
	def := config.NewDefaultConfig()
	if opts.Dir == "" {
		opts.Dir = "digsite"
	}
	if opts.Title == "" {
		opts.Title = def.Site.Title
	}
	if opts.InputDir == "" {
		opts.InputDir = def.Input.Dir
	}
	if opts.BuildDir == "" {
		opts.BuildDir = def.Build.BuildDir
	}
	if opts.ExternalURL == "" {
		opts.ExternalURL = def.Site.ExternalURL
	}
}

// Init scaffolds a project: the configuration, an empty input directory for
// the extracted documents and the introduction shown on the index page.
func Init(fsys afero.Fs, opts InitOptions) error {
	opts.setDefaults()
	root := opts.Dir

	if utils.FileExists(fsys, filepath.Join(root, ConfigFile)) {
		return fmt.Errorf("%s already exists in '%s'", ConfigFile, root)
	}
	if err := fsys.MkdirAll(filepath.Join(root, opts.InputDir), 0o755); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}

	toml := []byte(fmt.Sprintf(`[site]
title = %q
intro = %q
external-url = %q

[input]
dir = %q

[build]
build-dir = %q
overwrite = false
minify = false
chapter-linking = true
check-links = false
`, opts.Title, introFile, opts.ExternalURL, opts.InputDir, opts.BuildDir))
	if err := utils.WriteFile(fsys, filepath.Join(root, ConfigFile), toml); err != nil {
		return err
	}

	intro := []byte(fmt.Sprintf("# %s\n\nPlace the extracted JSON documents in `%s/` and run `digsite build`.\n", opts.Title, opts.InputDir))
	if err := utils.WriteFile(fsys, filepath.Join(root, introFile), intro); err != nil {
		return err
	}

	gitignore := []byte(fmt.Sprintf("%s\n", opts.BuildDir))
	_ = utils.WriteFile(fsys, filepath.Join(root, ".gitignore"), gitignore)
	return nil
}
