// Package metrics provides build observability for sitepipe.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no caller needs nil checks:
//
//	chain := filters.NewChain(logger, metrics.NoopRecorder{}, ...)
//
// PrometheusRecorder registers real collectors on a registry. Builds are
// short-lived processes, so instead of serving the registry over HTTP the CLI
// persists it with WriteTextfile for the node exporter textfile collector.
package metrics
