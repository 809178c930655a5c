// Package filters implements the per-document content filter chain that
// runs on rendered HTML right after each document is rendered.
package filters

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitepipe/internal/content"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// Func transforms one document's rendered HTML. It must not modify doc.
type Func func(doc *content.Document, html string) (string, error)

// Filter is a named content transformation.
type Filter struct {
	Name string
	Fn   Func
}

// Chain is an ordered list of filters. Later filters see the output of
// earlier ones, so order is part of the contract.
type Chain struct {
	filters  []Filter
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewChain builds a chain from filters in the given order.
func NewChain(logger *slog.Logger, recorder metrics.Recorder, filters ...Filter) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Chain{filters: filters, logger: logger, recorder: recorder}
}

// Options configures DefaultChain.
type Options struct {
	CarouselLookback int
}

// DefaultChain returns caption extraction, carousel path fix and lazy-load
// injection, in that order.
func DefaultChain(opts Options, logger *slog.Logger, recorder metrics.Recorder) *Chain {
	return NewChain(logger, recorder,
		Filter{Name: "caption", Fn: Caption},
		Filter{Name: "carousel_paths", Fn: CarouselPaths(opts.CarouselLookback)},
		Filter{Name: "lazy_load", Fn: LazyLoad},
	)
}

// Names lists the filters in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name
	}
	return names
}

// Apply runs every filter over doc.Content and stores the result. A filter
// that errors or panics is logged and skipped: the content it was given
// passes through unchanged. Apply returns the number of failed filters.
func (c *Chain) Apply(doc *content.Document) int {
	failed := 0
	html := doc.Content
	for _, f := range c.filters {
		out, err := runFilter(f, doc, html)
		if err != nil {
			failed++
			c.recorder.IncFilterFailure(f.Name)
			ce := foundationerrors.FilterError("content filter failed").
				WithCause(err).
				WithContext(logfields.KeyFilter, f.Name).
				WithContext(logfields.KeyDocument, doc.SourcePath).
				Build()
			c.logger.LogAttrs(context.Background(), ce.Level(), ce.Message(), ce.LogAttrs()...)
			continue
		}
		html = out
	}
	doc.Content = html
	return failed
}

func runFilter(f Filter, doc *content.Document, html string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = foundationerrors.InternalError("content filter panicked").
				WithCause(fmt.Errorf("panic: %v", r)).
				Build()
		}
	}()
	return f.Fn(doc, html)
}
