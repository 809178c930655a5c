package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "---\ntitle: Home\n---\n# Welcome\n")
	writeFile(t, root, "posts/demo.md", "---\ntitle: Demo\nlayout: ware\ntags: [wares, go]\ndate: 2023-04-05\n---\nBody with ![pic](a.png).\n")
	writeFile(t, root, "posts/demo/a.png", "png")
	writeFile(t, root, "works/my-project.md", "+++\nlayout = \"portfolio\"\ntags = \"wares\"\n+++\ntext\n")
	writeFile(t, root, "raw.html", "---\ntitle: Raw\n---\n<p>kept</p>\n")
	writeFile(t, root, "drafts/wip.md", "---\ndraft: true\n---\nsecret\n")
	writeFile(t, root, ".hidden/x.md", "hidden")
	writeFile(t, root, "notes.txt", "ignored")

	docs, err := NewLoader(root, nil).Load(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.SourcePath)
	}
	assert.Equal(t, []string{"index.md", "posts/demo.md", "raw.html", "works/my-project.md"}, paths)

	demo := docs[1]
	assert.Equal(t, "posts/demo/index.html", demo.OutputPath)
	assert.Equal(t, "ware", demo.Layout)
	assert.Equal(t, []string{"wares", "go"}, demo.Tags)
	assert.Equal(t, "Demo", demo.Title)
	assert.Equal(t, time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC), demo.Date.UTC())
	assert.Contains(t, demo.Content, `<img src="a.png" alt="pic">`)

	raw := docs[2]
	assert.Equal(t, "<p>kept</p>\n", raw.Content, "HTML sources are not rendered as markdown")

	project := docs[3]
	assert.Equal(t, "portfolio", project.Layout)
	assert.Equal(t, []string{"wares"}, project.Tags)
	assert.Equal(t, "My Project", project.Title, "title falls back to the file name")
}

func TestLoader_SectionBesideSameNamedPage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "projects.md", "---\ntitle: Projects\n---\nAll projects.\n")
	writeFile(t, root, "projects/alpha.md", "---\ntitle: Alpha\n---\nAlpha.\n")
	writeFile(t, root, "projects/alpha/shot.png", "png")

	docs, err := NewLoader(root, nil).Load(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.SourcePath)
	}
	assert.Equal(t, []string{"projects.md", "projects/alpha.md"}, paths)
}

func TestLoader_SkipsOutputUnderSource(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "public")
	writeFile(t, root, "index.md", "# Home\n")
	writeFile(t, root, "public/index.html", "<p>previous build</p>")
	writeFile(t, root, "public/posts/a/index.html", "<p>previous build</p>")

	docs, err := NewLoader(root, nil, out).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "index.md", docs[0].SourcePath)
}

func TestLoader_MarkdownInsideHTMLBlockSurvives(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/gallery.md", "<div class=\"carousel\">\n![one](/one.png \"First\")\n</div>\n")

	docs, err := NewLoader(root, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, `![one](/one.png "First")`)
}

func TestLoader_MissingRoot(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope"), nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryFileSystem))
}

func TestLoader_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(root, nil).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
