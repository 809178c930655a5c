// Package watch rebuilds the site whenever the content source tree or the
// configuration file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
)

// DefaultDebounce is the quiet period required before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Run.
type Options struct {
	SourceDir  string
	OutputDir  string
	ConfigFile string
	Debounce   time.Duration
	Logger     *slog.Logger
}

// RebuildFunc performs one rebuild. Its error is logged; watching goes on.
type RebuildFunc func(ctx context.Context) error

type watcher struct {
	fs     *fsnotify.Watcher
	source string
	output string
	config string
	logger *slog.Logger
}

// Run watches until ctx is canceled, calling rebuild once per burst of
// relevant changes. Directories created under the source root are watched
// as they appear. Changes under the output root and hidden files are
// ignored.
func Run(ctx context.Context, opts Options, rebuild RebuildFunc) error {
	w, err := newWatcher(opts)
	if err != nil {
		return err
	}
	defer w.fs.Close()

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	w.logger.Info("Watching for changes", logfields.Source(w.source))
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("Watcher stopped")
			return nil

		case <-timer.C:
			w.logger.Info("Change detected; rebuilding site")
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Warn("Rebuild failed", logfields.Error(err))
			}

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(ev) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func newWatcher(opts Options) (*watcher, error) {
	source, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	w := &watcher{source: source, logger: opts.Logger}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if opts.OutputDir != "" {
		if w.output, err = filepath.Abs(opts.OutputDir); err != nil {
			return nil, err
		}
	}
	if opts.ConfigFile != "" {
		if w.config, err = filepath.Abs(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w.fs = fw
	if err := w.addDirsRecursive(source); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if w.config != "" && !w.underSource(w.config) {
		// Editors replace files on save, so the parent directory is watched.
		if err := fw.Add(filepath.Dir(w.config)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = fw.Close()
			return nil, fmt.Errorf("watch config directory: %w", err)
		}
	}
	return w, nil
}

// handle reacts to one event and reports whether it should trigger a rebuild.
func (w *watcher) handle(ev fsnotify.Event) bool {
	if !w.relevant(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create != 0 && w.underSource(ev.Name) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addDirsRecursive(ev.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	w.logger.Debug("Change", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

// relevant reports whether a change to path can affect the build.
func (w *watcher) relevant(path string) bool {
	if w.config != "" && path == w.config {
		return true
	}
	if w.underOutput(path) || !w.underSource(path) {
		return false
	}
	rel, err := filepath.Rel(w.source, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if isIgnoredName(part) {
			return false
		}
	}
	return true
}

func (w *watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isIgnoredName(d.Name()) || w.underOutput(path)) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *watcher) underSource(path string) bool { return within(w.source, path) }

func (w *watcher) underOutput(path string) bool {
	return w.output != "" && within(w.output, path)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// isIgnoredName matches hidden files and common editor temporaries.
func isIgnoredName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp")
}
