package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.IncFetch(StageArchive)
	m.IncFetch(StageArchive)
	m.IncFetchError(StageArticle)
	m.AddLinksHarvested(3)
	m.IncArticleWritten("sport")
	m.IncArticleSkipped("sport")
	m.IncCorpusItem("afrique")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues(StageArchive)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrors.WithLabelValues(StageArticle)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LinksHarvested))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesWritten.WithLabelValues("sport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesSkipped.WithLabelValues("sport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CorpusItems.WithLabelValues("afrique")))
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.AddLinksHarvested(1)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.LinksHarvested))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.AddLinksHarvested(7)

	path := filepath.Join(t.TempDir(), "lxcorpus.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lxcorpus_links_harvested_total 7")
}
