package build

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// Builder runs site builds for one configuration.
type Builder struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	stages   []StageDef
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// New creates a Builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		stages:   defaultStages(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs every stage once and returns the report. The error is non-nil
// only when a stage was fatal or the context was canceled; pipeline
// warnings are reported through BuildReport.Warnings.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport(uuid.NewString())
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	bs := newBuildState(b.cfg, report, logger, b.recorder)

	logger.Info("Build started",
		logfields.Source(b.cfg.SourceDir),
		logfields.Destination(b.cfg.OutputDir))

	err := runStages(ctx, bs, b.stages)
	report.finish()

	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))

	level := slog.LevelInfo
	switch report.Outcome {
	case OutcomeWarning, OutcomeCanceled:
		level = slog.LevelWarn
	case OutcomeFailed:
		level = slog.LevelError
	}
	logger.LogAttrs(ctx, level, "Build complete", report.LogAttrs()...)

	return report, err
}
