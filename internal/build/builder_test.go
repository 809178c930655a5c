package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

func writeSource(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func readOutput(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.SourceDir = filepath.Join(base, "source")
	cfg.OutputDir = filepath.Join(base, "public")
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0o755))
	return &cfg
}

func newTestBuilder(cfg *config.Config, rec metrics.Recorder) *Builder {
	return New(cfg, WithLogger(slog.New(slog.DiscardHandler)), WithRecorder(rec))
}

func TestBuild_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	src := cfg.SourceDir
	writeSource(t, src, "index.md", "---\ntitle: Home\n---\n# Welcome\n")
	writeSource(t, src, "works/gallery.md",
		"---\ntitle: Gallery\nlayout: ware\n---\n<div class=\"carousel\">\n![one](/one.png \"First\")\n</div>\n")
	writeSource(t, src, "works/gallery/one.png", "PNGDATA")
	writeSource(t, src, "projects/alpha.md", "---\ntitle: Alpha\nlayout: portfolio\ndate: 2024-01-02\n---\nAlpha project text.\n")
	writeSource(t, src, "showcase.md", "---\ntitle: Showcase\npermalink: /works/\n---\nShowcase page.\n")
	writeSource(t, cfg.OutputDir, "stale.html", "old build")

	report, err := newTestBuilder(cfg, nil).Build(context.Background())
	require.NoError(t, err)
	out := cfg.OutputDir

	assert.NotEmpty(t, report.BuildID)
	assert.Equal(t, 4, report.Documents)
	assert.Equal(t, 4, report.PagesWritten)
	assert.Equal(t, 1, report.RejectedRoutes, "works/index.html belongs to the showcase page")
	assert.Equal(t, 5, report.Routes)
	assert.Equal(t, 1, report.AssetsCopied)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, StageErrorWarning, report.StageErrorKinds[StageGenerateRoutes])
	assert.Len(t, report.StageDurations, 7)

	assert.NoFileExists(t, filepath.Join(out, "stale.html"), "clean removes previous output")

	gallery := readOutput(t, out, "works/gallery/index.html")
	assert.Contains(t, gallery,
		`<figure class="image-caption"><img loading="lazy" decoding="async" src="/works/gallery/one.png" alt="one"><figcaption>First</figcaption></figure>`)
	assert.Equal(t, "PNGDATA", readOutput(t, out, "works/gallery/one.png"))

	assert.Contains(t, readOutput(t, out, "works/index.html"), "Showcase page.")
	assert.Contains(t, readOutput(t, out, "blog/index.html"), `url=/?tab=blog`)
	assert.Contains(t, readOutput(t, out, "projects/index.html"), `url=/?tab=portfolio`)

	listing := readOutput(t, out, "portfolio-index.html")
	assert.Contains(t, listing, "Alpha")
	assert.Contains(t, listing, `href="/projects/alpha/"`)
	assert.NotContains(t, listing, "Gallery")
}

func TestBuild_CleanDisabledKeepsOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clean = false
	writeSource(t, cfg.SourceDir, "index.md", "hi\n")
	writeSource(t, cfg.OutputDir, "keep.txt", "keep")

	report, err := newTestBuilder(cfg, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "keep.txt"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "index.html"))
}

func TestBuild_OutputUnderSourceIsNotReloaded(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clean = false
	cfg.OutputDir = filepath.Join(cfg.SourceDir, "public")
	writeSource(t, cfg.SourceDir, "index.md", "hi\n")
	writeSource(t, cfg.SourceDir, "posts/a.md", "post\n")

	for i := 0; i < 2; i++ {
		report, err := newTestBuilder(cfg, nil).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, report.Documents, "build %d", i)
	}
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "posts", "a", "index.html"))
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "public"))
}

func TestBuild_MissingSourceIsFatal(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.RemoveAll(cfg.SourceDir))

	report, err := newTestBuilder(cfg, nil).Build(context.Background())

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageLoadDocuments, se.Stage)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryFileSystem))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.NotContains(t, report.StageDurations, StageWriteOutput)
}

func TestBuild_Canceled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestBuilder(cfg, nil).Build(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestBuild_DuplicateOutputPathKeepsFirst(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg.SourceDir, "a.md", "---\npermalink: /same/\n---\nfirst\n")
	writeSource(t, cfg.SourceDir, "b.md", "---\npermalink: /same/\n---\nsecond\n")

	report, err := newTestBuilder(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.PagesWritten)
	assert.Equal(t, StageErrorWarning, report.StageErrorKinds[StageWriteOutput])
	assert.Contains(t, readOutput(t, cfg.OutputDir, "same/index.html"), "first")
}

type outcomeRecorder struct {
	metrics.NoopRecorder
	outcome   metrics.BuildOutcomeLabel
	documents int
	rejected  map[string]int
}

func (r *outcomeRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) { r.outcome = o }
func (r *outcomeRecorder) IncDocuments(n int)                        { r.documents += n }
func (r *outcomeRecorder) IncRouteRejected(g string)                 { r.rejected[g]++ }

func TestBuild_RecordsMetrics(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg.SourceDir, "blog.md", "---\npermalink: /blog/\n---\nposts\n")
	rec := &outcomeRecorder{rejected: map[string]int{}}

	_, err := newTestBuilder(cfg, rec).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, metrics.BuildOutcomeWarning, rec.outcome)
	assert.Equal(t, 1, rec.documents)
	assert.Equal(t, map[string]int{"tab_redirects": 1}, rec.rejected)
}
