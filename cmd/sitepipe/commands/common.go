// Package commands implements the sitepipe command line.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitepipe/internal/build"
	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// Global carries state shared by every command.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitepipe.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site once"`
	Watch WatchCmd `cmd:"" help:"Build the site and rebuild on every source change"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger until the
// configuration has been read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	if g.Context == nil {
		g.Context = context.Background()
	}
	return nil
}

// PathFlags are the flags shared by build and watch.
type PathFlags struct {
	Source      string `short:"s" help:"Content source directory (overrides source_dir)"`
	Output      string `short:"o" help:"Site output directory (overrides output_dir)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path"`
}

// loadConfig reads the configuration, applies CLI overrides and switches the
// shared logger to the configured handler.
func loadConfig(g *Global, root *CLI, o PathFlags) (*config.Config, error) {
	cfg, err := config.LoadOptional(root.Config)
	if err != nil {
		return nil, err
	}
	if o.Source != "" {
		cfg.SourceDir = o.Source
	}
	if o.Output != "" {
		cfg.OutputDir = o.Output
	}
	if o.MetricsFile != "" {
		cfg.Metrics.Textfile = o.MetricsFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	g.Logger = cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// newBuilder returns a builder for cfg and a flush function that persists
// metrics when a textfile is configured.
func newBuilder(g *Global, cfg *config.Config) (*build.Builder, func()) {
	if cfg.Metrics.Textfile == "" {
		return build.New(cfg, build.WithLogger(g.Logger)), func() {}
	}
	rec := metrics.NewPrometheusRecorder(nil)
	b := build.New(cfg, build.WithLogger(g.Logger), build.WithRecorder(rec))
	flush := func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, rec.Registry()); err != nil {
			g.Logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	return b, flush
}
