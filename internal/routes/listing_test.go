package routes

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

func TestListing_FiltersByLayoutInOrder(t *testing.T) {
	docs := []*content.Document{
		{Title: "Zeta", OutputPath: "works/zeta/index.html", Layout: "portfolio", Content: "<p>Zeta body</p>"},
		{Title: "Post", OutputPath: "posts/p/index.html", Layout: "post"},
		{
			Title:       "Alpha & Co",
			OutputPath:  "works/alpha/index.html",
			Layout:      "portfolio",
			Tags:        []string{"go", "wares"},
			Date:        time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			FrontMatter: map[string]any{"description": "Hand written summary"},
		},
	}

	routes, err := Listing(ListingOptions{Layout: "portfolio", Path: "portfolio-index.html", Title: "Works"})(docs)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	page := routes[0]
	assert.Equal(t, "portfolio-index.html", page.Path)
	assert.Contains(t, page.Content, "<title>Works</title>")
	assert.NotContains(t, page.Content, "/posts/p/")
	assert.Contains(t, page.Content, `<a href="/works/alpha/">Alpha &amp; Co</a>`)
	assert.Contains(t, page.Content, `<time datetime="2024-03-09">Mar 9, 2024</time>`)
	assert.Contains(t, page.Content, "<p>Hand written summary</p>")
	assert.Contains(t, page.Content, "<li>wares</li>")
	assert.Contains(t, page.Content, "<p>Zeta body</p>")

	zeta := strings.Index(page.Content, "/works/zeta/")
	alpha := strings.Index(page.Content, "/works/alpha/")
	assert.Less(t, zeta, alpha, "collection order is preserved")
}

func TestListing_EmptyStillEmitted(t *testing.T) {
	routes, err := Listing(ListingOptions{Layout: "portfolio", Path: "portfolio-index.html", Title: "Works"})(nil)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Contains(t, routes[0].Content, "listing-empty")
}

func TestTextExcerpt(t *testing.T) {
	fragment := `<h1>Title</h1><figure><img src="a.png"><figcaption>caption words</figcaption></figure>` +
		`<script>var x = 1;</script><p>one two  three</p><p>four</p>`

	assert.Equal(t, "Title one two three four", TextExcerpt(fragment, 10))
	assert.Equal(t, "Title one…", TextExcerpt(fragment, 2))
	assert.Equal(t, "", TextExcerpt("", 5))
}
