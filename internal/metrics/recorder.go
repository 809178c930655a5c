package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// AssetResult enumerates per-document asset synchronization outcomes.
type AssetResult string

const (
	AssetCopied  AssetResult = "copied"
	AssetSkipped AssetResult = "skipped"
	AssetFailed  AssetResult = "failed"
)

// Recorder defines observability hooks for the build and its pipeline stages.
// Implementations must be safe for concurrent use: the asset synchronizer
// records from several goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncDocuments(n int)
	IncFilterFailure(filter string)
	IncRouteRejected(generator string)
	IncAssetResult(result AssetResult)
	AddAssetFiles(n int)
	IncPostProcessed(changed bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) IncDocuments(int)                           {}
func (NoopRecorder) IncFilterFailure(string)                    {}
func (NoopRecorder) IncRouteRejected(string)                    {}
func (NoopRecorder) IncAssetResult(AssetResult)                 {}
func (NoopRecorder) AddAssetFiles(int)                          {}
func (NoopRecorder) IncPostProcessed(bool)                      {}
