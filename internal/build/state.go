package build

import (
	"log/slog"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/content"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// BuildState carries mutable state across stages of one build.
type BuildState struct {
	Config *config.Config
	Report *BuildReport
	Docs   []*content.Document
	Routes []content.Route

	logger   *slog.Logger
	recorder metrics.Recorder
}

func newBuildState(cfg *config.Config, report *BuildReport, logger *slog.Logger, recorder metrics.Recorder) *BuildState {
	return &BuildState{Config: cfg, Report: report, logger: logger, recorder: recorder}
}
