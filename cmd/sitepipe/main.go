package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitepipe/cmd/sitepipe/commands"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli commands.CLI
	global := &commands.Global{Context: ctx}
	parser := kong.Parse(&cli,
		kong.Name("sitepipe"),
		kong.Description("Build-time content and asset pipeline for a static portfolio site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := parser.Run(&cli); err != nil {
		stop()
		foundationerrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
