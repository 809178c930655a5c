// Package assets copies per-document asset directories into the site output
// once every page has been written.
package assets

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitepipe/internal/content"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// Synchronizer copies the asset directory of every qualifying document next
// to the document's output. A document qualifies when its layout equals
// Layout or its tags contain Tag.
type Synchronizer struct {
	SourceRoot  string
	OutputRoot  string
	Layout      string
	Tag         string
	Concurrency int
	Logger      *slog.Logger
	Recorder    metrics.Recorder
}

// Result summarizes one synchronization run.
type Result struct {
	Qualifying int
	Copied     int
	Skipped    int
	Failed     int
	Files      int
}

// Qualifies reports whether doc's asset directory should be synchronized.
func (s *Synchronizer) Qualifies(doc *content.Document) bool {
	return (s.Layout != "" && doc.Layout == s.Layout) || (s.Tag != "" && doc.HasTag(s.Tag))
}

// Sync copies asset directories for all qualifying documents concurrently
// and waits for every copy to finish. Missing asset directories are skipped
// silently; copy failures are logged with source and destination and do not
// stop the remaining copies. Sync itself never fails.
func (s *Synchronizer) Sync(ctx context.Context, docs []*content.Document) Result {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := s.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	var qualifying []*content.Document
	for _, d := range docs {
		if s.Qualifies(d) {
			qualifying = append(qualifying, d)
		}
	}

	var copied, skipped, failed, files atomic.Int64
	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, doc := range qualifying {
		src := filepath.Join(s.SourceRoot, filepath.FromSlash(doc.AssetDir()))
		dst := filepath.Join(s.OutputRoot, filepath.FromSlash(doc.OutputDir()))
		g.Go(func() error {
			n, err := s.syncOne(ctx, src, dst)
			switch {
			case errors.Is(err, errNoAssetDir):
				skipped.Add(1)
				recorder.IncAssetResult(metrics.AssetSkipped)
				logger.Debug("No asset directory", logfields.Document(doc.SourcePath), logfields.Source(src))
			case err != nil:
				failed.Add(1)
				files.Add(int64(n))
				recorder.IncAssetResult(metrics.AssetFailed)
				recorder.AddAssetFiles(n)
				ce := foundationerrors.AssetError("asset directory copy failed").
					WithCause(err).
					WithContext(logfields.KeyDocument, doc.SourcePath).
					WithContext(logfields.KeySource, src).
					WithContext(logfields.KeyDestination, dst).
					Build()
				logger.LogAttrs(ctx, ce.Level(), ce.Message(), ce.LogAttrs()...)
			default:
				copied.Add(1)
				files.Add(int64(n))
				recorder.IncAssetResult(metrics.AssetCopied)
				recorder.AddAssetFiles(n)
				logger.Debug("Copied asset directory",
					logfields.Document(doc.SourcePath),
					logfields.Source(src),
					logfields.Destination(dst),
					logfields.Count(n))
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Qualifying: len(qualifying),
		Copied:     int(copied.Load()),
		Skipped:    int(skipped.Load()),
		Failed:     int(failed.Load()),
		Files:      int(files.Load()),
	}
}

var errNoAssetDir = errors.New("no asset directory")

func (s *Synchronizer) syncOne(ctx context.Context, src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, errNoAssetDir
		}
		return 0, err
	}
	if !info.IsDir() {
		return 0, errNoAssetDir
	}
	return CopyTree(ctx, src, dst)
}
