// Package routes holds the generators that synthesize pages which are not
// derived 1:1 from source documents.
package routes

import (
	"fmt"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

// Func produces routes from the full, read-only document collection. It must
// be deterministic for a given input.
type Func func(docs []*content.Document) ([]content.Route, error)

// Generator is a named route producer.
type Generator struct {
	Name string
	Fn   Func
}

// Options configures DefaultGenerators.
type Options struct {
	ListingLayout string
	ListingPath   string
	ListingTitle  string
}

// DefaultGenerators returns the tab redirect and portfolio listing generators.
func DefaultGenerators(opts Options) []Generator {
	return []Generator{
		{Name: "tab_redirects", Fn: TabRedirects},
		{Name: "portfolio_listing", Fn: Listing(ListingOptions{
			Layout: opts.ListingLayout,
			Path:   opts.ListingPath,
			Title:  opts.ListingTitle,
		})},
	}
}

// Run invokes the generators in order and concatenates their routes,
// stamping each with its generator name and a normalized path. The first
// generator error aborts the run.
func Run(gens []Generator, docs []*content.Document) ([]content.Route, error) {
	var out []content.Route
	for i, g := range gens {
		routes, err := g.Fn(docs)
		if err != nil {
			return out, fmt.Errorf("generator %d (%s) failed: %w", i, g.Name, err)
		}
		for _, r := range routes {
			r.Path = content.NormalizePath(r.Path)
			r.Generator = g.Name
			out = append(out, r)
		}
	}
	return out, nil
}
