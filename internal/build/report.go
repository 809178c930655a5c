package build

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// BuildReport captures what one build did.
type BuildReport struct {
	BuildID string
	Start   time.Time
	End     time.Time

	Documents      int // documents loaded (drafts excluded)
	PagesWritten   int
	Routes         int // routes accepted and written
	RejectedRoutes int // routes dropped because their path was taken
	FilterFailures int
	AssetsCopied   int
	AssetsSkipped  int
	AssetsFailed   int
	AssetFiles     int
	PostProcessed  int // HTML files rewritten by the post-processor

	Errors          []error // fatal or canceled stage errors (at most one)
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:         buildID,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *BuildReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// deriveOutcome sets Outcome from the recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("documents=%d pages=%d routes=%d rejected=%d filter_failures=%d assets=%d/%d/%d post_processed=%d duration=%s outcome=%s",
		r.Documents, r.PagesWritten, r.Routes, r.RejectedRoutes, r.FilterFailures,
		r.AssetsCopied, r.AssetsSkipped, r.AssetsFailed, r.PostProcessed,
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

// LogAttrs returns the report counters as structured log attributes.
func (r *BuildReport) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("outcome", string(r.Outcome)),
		slog.Int("documents", r.Documents),
		slog.Int("pages", r.PagesWritten),
		slog.Int("routes", r.Routes),
		slog.Int("rejected_routes", r.RejectedRoutes),
		slog.Int("filter_failures", r.FilterFailures),
		slog.Int("assets_copied", r.AssetsCopied),
		slog.Int("assets_skipped", r.AssetsSkipped),
		slog.Int("assets_failed", r.AssetsFailed),
		slog.Int("post_processed", r.PostProcessed),
		slog.Int("warnings", len(r.Warnings)),
		logfields.DurationMS(float64(r.Duration().Microseconds()) / 1000),
	}
}
