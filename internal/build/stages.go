package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

const (
	StagePrepareOutput   StageName = "prepare_output"
	StageLoadDocuments   StageName = "load_documents"
	StageFilterDocuments StageName = "filter_documents"
	StageGenerateRoutes  StageName = "generate_routes"
	StageWriteOutput     StageName = "write_output"
	StageSyncAssets      StageName = "sync_assets"
	StagePostProcess     StageName = "post_process"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage with its name.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// defaultStages is the fixed pipeline order.
func defaultStages() []StageDef {
	return []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageLoadDocuments, stageLoadDocuments},
		{StageFilterDocuments, stageFilterDocuments},
		{StageGenerateRoutes, stageGenerateRoutes},
		{StageWriteOutput, stageWriteOutput},
		{StageSyncAssets, stageSyncAssets},
		{StagePostProcess, stagePostProcess},
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled error. Errors that are not StageErrors are treated
// as fatal.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.recordStage(st.Name, 0, se)
			return se
		}
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		if err == nil {
			bs.recordStage(st.Name, dur, nil)
			continue
		}
		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}
		bs.recordStage(st.Name, dur, se)
		if se.Kind != StageErrorWarning {
			return se
		}
	}
	return nil
}

// recordStage updates the report, metrics and log for one finished stage.
func (bs *BuildState) recordStage(name StageName, dur time.Duration, se *StageError) {
	r := bs.Report
	r.StageDurations[name] = dur
	sc := r.StageCounts[name]
	result := metrics.ResultSuccess
	if se == nil {
		sc.Success++
	} else {
		r.StageErrorKinds[name] = se.Kind
		switch se.Kind {
		case StageErrorWarning:
			sc.Warning++
			result = metrics.ResultWarning
			r.Warnings = append(r.Warnings, se)
		case StageErrorCanceled:
			sc.Canceled++
			result = metrics.ResultCanceled
			r.Errors = append(r.Errors, se)
		default:
			sc.Fatal++
			result = metrics.ResultFatal
			r.Errors = append(r.Errors, se)
		}
	}
	r.StageCounts[name] = sc

	bs.recorder.ObserveStageDuration(string(name), dur)
	bs.recorder.IncStageResult(string(name), result)

	attrs := []any{logfields.Stage(string(name)), logfields.DurationMS(float64(dur.Microseconds()) / 1000)}
	switch result {
	case metrics.ResultSuccess:
		bs.logger.Debug("Stage complete", attrs...)
	case metrics.ResultWarning:
		bs.logger.Warn("Stage completed with warnings", append(attrs, logfields.Error(se.Err))...)
	case metrics.ResultCanceled:
		bs.logger.Warn("Stage canceled", attrs...)
	default:
		bs.logger.Error("Stage failed", append(attrs, logfields.Error(se.Err))...)
	}
}
