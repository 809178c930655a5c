package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

func TestTabRedirects(t *testing.T) {
	want := map[string]string{
		"blog/index.html":      "/?tab=blog",
		"words/index.html":     "/?tab=blog",
		"works/index.html":     "/?tab=portfolio",
		"portfolio/index.html": "/?tab=portfolio",
		"projects/index.html":  "/?tab=portfolio",
	}

	inputs := map[string][]*content.Document{
		"nil":   nil,
		"empty": {},
		"populated": {
			{SourcePath: "blog.md", OutputPath: "blog/index.html", Layout: "portfolio"},
			{SourcePath: "x.md", OutputPath: "x/index.html"},
		},
	}

	for name, docs := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := TabRedirects(docs)
			require.NoError(t, err)
			require.Len(t, got, 5)

			paths := make([]string, 0, len(got))
			for _, r := range got {
				paths = append(paths, r.Path)
				target, ok := want[r.Path]
				require.True(t, ok, "unexpected route %s", r.Path)
				assert.Contains(t, r.Content, `http-equiv="refresh" content="0; url=`+target+`"`)
				assert.Contains(t, r.Content, `<link rel="canonical" href="`+target+`">`)
			}
			assert.Equal(t, []string{
				"blog/index.html", "words/index.html",
				"works/index.html", "portfolio/index.html", "projects/index.html",
			}, paths)
		})
	}
}

func TestRun_StampsGeneratorAndNormalizesPath(t *testing.T) {
	gens := []Generator{
		{Name: "one", Fn: func([]*content.Document) ([]content.Route, error) {
			return []content.Route{{Path: "/a/./b.html", Content: "x"}}, nil
		}},
		{Name: "tab_redirects", Fn: TabRedirects},
	}

	got, err := Run(gens, nil)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, content.Route{Path: "a/b.html", Content: "x", Generator: "one"}, got[0])
	assert.Equal(t, "tab_redirects", got[1].Generator)
}

func TestRun_GeneratorError(t *testing.T) {
	gens := []Generator{{Name: "broken", Fn: func([]*content.Document) ([]content.Route, error) {
		return nil, assert.AnError
	}}}

	_, err := Run(gens, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "generator 0 (broken) failed")
}

func TestDefaultGenerators(t *testing.T) {
	gens := DefaultGenerators(Options{ListingLayout: "portfolio", ListingPath: "portfolio-index.html", ListingTitle: "Works"})
	require.Len(t, gens, 2)

	got, err := Run(gens, nil)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, "portfolio-index.html", got[5].Path)
	assert.Equal(t, "portfolio_listing", got[5].Generator)
}
