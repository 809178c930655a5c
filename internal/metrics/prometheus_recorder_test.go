package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("sync_assets", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("sync_assets", ResultWarning)
	pr.IncBuildOutcome(BuildOutcomeWarning)
	pr.IncDocuments(4)
	pr.IncFilterFailure("caption")
	pr.IncFilterFailure("caption")
	pr.IncRouteRejected("portfolio_listing")
	pr.IncAssetResult(AssetCopied)
	pr.IncAssetResult(AssetFailed)
	pr.AddAssetFiles(7)
	pr.IncPostProcessed(true)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.filterFailures.WithLabelValues("caption")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.documents), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(pr.assetFiles), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.assetResults.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.routesRejected.WithLabelValues("portfolio_listing")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	path := filepath.Join(t.TempDir(), "nested", "sitepipe.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitepipe_build_outcomes_total{outcome="success"} 1`)
}
