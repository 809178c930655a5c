// Package postprocess rewrites generated HTML files in place after the whole
// site has been written.
package postprocess

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitepipe/internal/filters"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// Func rewrites one HTML file's contents. It must be idempotent.
type Func func(html string) string

// Processor applies an ordered list of rewrites to every HTML file in a tree.
type Processor struct {
	funcs    []Func
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Result counts the files a run touched.
type Result struct {
	Scanned   int
	Rewritten int
	Failed    int
}

// New creates a processor applying funcs in order.
func New(logger *slog.Logger, recorder metrics.Recorder, funcs ...Func) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Processor{funcs: funcs, logger: logger, recorder: recorder}
}

// Default returns a processor that adds lazy-loading attributes to images.
func Default(logger *slog.Logger, recorder metrics.Recorder) *Processor {
	return New(logger, recorder, filters.LazyLoadHTML)
}

// Apply runs every rewrite over html.
func (p *Processor) Apply(html string) string {
	for _, fn := range p.funcs {
		html = fn(html)
	}
	return html
}

// ProcessTree rewrites every .html file under root. A file is written back
// only when its content changed. Per-file errors are logged and counted;
// the walk continues. Only context cancellation stops it early.
func (p *Processor) ProcessTree(ctx context.Context, root string) (Result, error) {
	var res Result
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			res.Failed++
			p.logFailure(ctx, path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		res.Scanned++
		changed, err := p.processFile(path)
		if err != nil {
			res.Failed++
			p.logFailure(ctx, path, err)
			return nil
		}
		p.recorder.IncPostProcessed(changed)
		if changed {
			res.Rewritten++
			p.logger.Debug("Post-processed file", logfields.Path(path))
		}
		return nil
	})
	return res, err
}

func (p *Processor) processFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	before := string(data)
	after := p.Apply(before)
	if after == before {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Processor) logFailure(ctx context.Context, path string, err error) {
	ce := foundationerrors.WrapError(err, foundationerrors.CategoryBuild, "post-process failed").
		Warning().
		WithContext(logfields.KeyPath, path).
		Build()
	p.logger.LogAttrs(ctx, ce.Level(), ce.Message(), ce.LogAttrs()...)
}
