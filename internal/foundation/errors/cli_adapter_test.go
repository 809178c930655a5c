package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad concurrency").Build(), expected: 2},
		{name: "config error", err: ConfigError("missing file").Build(), expected: 7},
		{name: "filesystem error", err: FileSystemError("source root missing").Build(), expected: 11},
		{name: "internal error", err: InternalError("bug").Build(), expected: 10},
		{name: "unclassified error", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())
	err := ConfigError("source_dir is required").Build()

	assert.Equal(t, "Configuration error: source_dir is required", quiet.FormatError(err))
	assert.Equal(t, err.Error(), verbose.FormatError(err))
	assert.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(BuildError("load documents").Build())

	assert.Equal(t, 11, code)
	assert.Contains(t, out.String(), "Build failed: load documents")
	assert.Contains(t, logs.String(), "category=build")

	code = -1
	adapter.HandleError(nil)
	assert.Equal(t, -1, code)
}
