package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyDocument    = "document"
	KeyOutput      = "output"
	KeyLayout      = "layout"
	KeyFilter      = "filter"
	KeyGenerator   = "generator"
	KeyRoute       = "route"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyPath        = "path"
	KeyCount       = "count"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr        { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Document(src string) slog.Attr      { return slog.String(KeyDocument, src) }
func Output(p string) slog.Attr          { return slog.String(KeyOutput, p) }
func Layout(l string) slog.Attr          { return slog.String(KeyLayout, l) }
func Filter(name string) slog.Attr       { return slog.String(KeyFilter, name) }
func Generator(name string) slog.Attr    { return slog.String(KeyGenerator, name) }
func Route(p string) slog.Attr           { return slog.String(KeyRoute, p) }
func Source(p string) slog.Attr          { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr     { return slog.String(KeyDestination, p) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
