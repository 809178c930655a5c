package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PathFlags `embed:""`
	Debounce  time.Duration `help:"Quiet period before a rebuild starts" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, w.PathFlags)
	if err != nil {
		return err
	}

	// The configuration is read again for every rebuild so edits to the
	// config file apply. Watched roots stay as they were at startup.
	rebuild := func(ctx context.Context) error {
		current, err := loadConfig(g, root, w.PathFlags)
		if err != nil {
			return err
		}
		builder, flush := newBuilder(g, current)
		_, err = builder.Build(ctx)
		flush()
		return err
	}

	if err := rebuild(g.Context); err != nil {
		if g.Context.Err() != nil {
			return nil
		}
		g.Logger.Warn("Initial build failed; waiting for changes", logfields.Error(err))
	}

	return watch.Run(g.Context, watch.Options{
		SourceDir:  cfg.SourceDir,
		OutputDir:  cfg.OutputDir,
		ConfigFile: root.Config,
		Debounce:   w.Debounce,
		Logger:     g.Logger,
	}, rebuild)
}
