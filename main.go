package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/geocine/digsite/internal/check"
	"github.com/geocine/digsite/internal/cli"
	"github.com/geocine/digsite/internal/config"
	"github.com/geocine/digsite/internal/siteerr"
	"github.com/geocine/digsite/internal/utils"
	"github.com/spf13/afero"
)

// Globals are the flags shared by every command
type Globals struct {
	Config  string `help:"Configuration file" default:"digsite.toml" type:"path"`
	Verbose bool   `help:"Enable debug logging" short:"v"`
	LogJSON bool   `help:"Log as JSON" name:"log-json"`
}

type BuildCmd struct {
	DestDir          string `help:"Destination directory for the build" name:"dest-dir"`
	Overwrite        bool   `help:"Replace an existing build directory"`
	Minify           bool   `help:"Minify pages, scripts and styles"`
	NoChapterLinking bool   `help:"Do not link the last page of a chapter to the next chapter" name:"no-chapter-linking"`
	Check            bool   `help:"Check the hyperlinks of the generated pages"`
}

type CheckCmd struct {
	DestDir string `help:"Build directory to check" name:"dest-dir"`
}

type InitCmd struct {
	Dir   string `arg:"" optional:"" help:"Project directory" default:"digsite"`
	Title string `help:"Site title"`
	Yes   bool   `help:"Skip interactive prompts and use provided/default values"`
}

type CleanCmd struct {
	DestDir string `help:"Build directory to clean" name:"dest-dir"`
}

type CLI struct {
	Globals

	Build BuildCmd `cmd:"" help:"Migrate the extracted documents into a new site"`
	Check CheckCmd `cmd:"" help:"Check the hyperlinks of an existing build"`
	Init  InitCmd  `cmd:"" help:"Initialize a new migration project"`
	Clean CleanCmd `cmd:"" help:"Remove the build directory"`
}

func main() {
	var c CLI
	kongCtx := kong.Parse(
		&c,
		kong.Name("digsite"),
		kong.Description("Migrates the legacy frameset excavation site into a static site"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logger := newLogger(c.Globals)
	if err := kongCtx.Run(&c.Globals, logger); err != nil {
		logger.Error("command failed", "command", kongCtx.Command(), "kind", siteerr.KindOf(err), "error", err)
		os.Exit(1)
	}
}

func newLogger(g Globals) *slog.Logger {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if g.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig reads the configuration file. A missing file falls back to
// the defaults.
func loadConfig(g *Globals, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadFromFile(g.Config)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("config file not found, using defaults", "file", g.Config)
		cfg = config.NewDefaultConfig()
		cfg.UpdateFromEnv()
		return cfg, nil
	}
	return cfg, err
}

func (cmd *BuildCmd) Run(g *Globals, logger *slog.Logger) error {
	cfg, err := loadConfig(g, logger)
	if err != nil {
		return err
	}
	if cmd.DestDir != "" {
		cfg.Build.BuildDir = cmd.DestDir
	}
	if cmd.Overwrite {
		cfg.Build.Overwrite = true
	}
	if cmd.Minify {
		cfg.Build.Minify = true
	}
	if cmd.NoChapterLinking {
		cfg.Build.ChapterLinking = false
	}

	logger.Info("building site", "title", cfg.Site.Title, "input", cfg.Input.Dir, "dest", cfg.Build.BuildDir)
	result, err := cli.Build(cli.BuildOptions{
		Fs:     afero.NewOsFs(),
		Config: cfg,
		Assets: frontendFS(),
		Logger: logger,
		Check:  cmd.Check,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Site built to %s: %d pages", result.DestDir, result.Pages)
	if n := len(result.Failures); n > 0 {
		fmt.Printf(", %d modules failed validation", n)
	}
	fmt.Println()
	return reportErrors(result.Report)
}

func (cmd *CheckCmd) Run(g *Globals, logger *slog.Logger) error {
	cfg, err := loadConfig(g, logger)
	if err != nil {
		return err
	}
	dir := cmd.DestDir
	if dir == "" {
		dir = cfg.Build.BuildDir
	}
	gateway := cfg.GetString("site.external-url", cfg.Site.ExternalURL)
	report, err := cli.Check(afero.NewOsFs(), dir, gateway, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Checked %d anchors in %d pages\n", report.Anchors, report.Pages)
	return reportErrors(report)
}

func reportErrors(report *check.Report) error {
	if report == nil {
		return nil
	}
	if n := report.Errors(); n > 0 {
		return fmt.Errorf("%d broken links", n)
	}
	return nil
}

func (cmd *InitCmd) Run(logger *slog.Logger) error {
	opts := cli.InitOptions{Dir: cmd.Dir, Title: cmd.Title}
	if !cmd.Yes {
		cli.FillInitOptionsInteractive(os.Stdin, os.Stdout, &opts)
	}
	if err := cli.Init(afero.NewOsFs(), opts); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	logger.Debug("project initialized", "dir", opts.Dir)

	fmt.Printf("\nSuccessfully created project in '%s'\n", opts.Dir)
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", opts.Dir)
	fmt.Println("  copy the extracted JSON documents into the input directory")
	fmt.Println("  digsite build     # build the site")
	fmt.Println("  digsite check     # check the generated hyperlinks")
	return nil
}

func (cmd *CleanCmd) Run(g *Globals, logger *slog.Logger) error {
	cfg, err := loadConfig(g, logger)
	if err != nil {
		return err
	}
	dir := cmd.DestDir
	if dir == "" {
		dir = cfg.Build.BuildDir
	}
	summary, err := cli.Clean(afero.NewOsFs(), dir)
	if err != nil {
		return err
	}
	if !summary.Removed {
		fmt.Printf("Nothing to clean; directory '%s' does not exist.\n", dir)
		return nil
	}
	fmt.Printf("Removed %d files, %d directories, %s from '%s'.\n", summary.Files, summary.Dirs, utils.HumanBytes(summary.Bytes), dir)
	return nil
}
