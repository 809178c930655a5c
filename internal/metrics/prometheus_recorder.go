package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitepipe"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	documents      prom.Counter
	filterFailures *prom.CounterVec
	routesRejected *prom.CounterVec
	assetResults   *prom.CounterVec
	assetFiles     prom.Counter
	postProcessed  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents loaded and filtered",
		}),
		filterFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "filter_failures_total",
			Help:      "Content filter invocations that failed open",
		}, []string{"filter"}),
		routesRejected: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "routes_rejected_total",
			Help:      "Generated routes dropped because their path was already taken",
		}, []string{"generator"}),
		assetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "asset_sync_results_total",
			Help:      "Asset directory synchronization outcomes per qualifying document",
		}, []string{"result"}),
		assetFiles: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "asset_files_copied_total",
			Help:      "Files copied by the asset synchronizer",
		}),
		postProcessed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "postprocessed_files_total",
			Help:      "HTML files visited by the post-processor",
		}, []string{"changed"}),
	}
	reg.MustRegister(
		pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.documents, pr.filterFailures, pr.routesRejected, pr.assetResults,
		pr.assetFiles, pr.postProcessed,
	)
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocuments(n int) {
	p.documents.Add(float64(n))
}

func (p *PrometheusRecorder) IncFilterFailure(filter string) {
	p.filterFailures.WithLabelValues(filter).Inc()
}

func (p *PrometheusRecorder) IncRouteRejected(generator string) {
	p.routesRejected.WithLabelValues(generator).Inc()
}

func (p *PrometheusRecorder) IncAssetResult(result AssetResult) {
	p.assetResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddAssetFiles(n int) {
	p.assetFiles.Add(float64(n))
}

func (p *PrometheusRecorder) IncPostProcessed(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	p.postProcessed.WithLabelValues(label).Inc()
}
