package commands

import (
	"fmt"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	PathFlags `embed:""`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, b.PathFlags)
	if err != nil {
		return err
	}
	builder, flush := newBuilder(g, cfg)
	report, err := builder.Build(g.Context)
	flush()
	if err != nil {
		return err
	}
	//nolint:forbidigo // fmt is used for user-facing messages
	fmt.Printf("Build %s: %s\n", report.BuildID, report.Summary())
	return nil
}
