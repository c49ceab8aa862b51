package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch stages.
const (
	StageArchive = "archive"
	StageArticle = "article"
)

// Metrics holds the Prometheus counters of a single pipeline run.
type Metrics struct {
	Registry        *prometheus.Registry
	FetchesTotal    *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec
	LinksHarvested  prometheus.Counter
	ArticlesWritten *prometheus.CounterVec
	ArticlesSkipped *prometheus.CounterVec
	CorpusItems     *prometheus.CounterVec
}

// NewMetrics registers the run counters on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lxcorpus_fetches_total",
			Help: "The total number of pages requested",
		}, []string{"stage"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lxcorpus_fetch_errors_total",
			Help: "The total number of page requests that failed",
		}, []string{"stage"}),
		LinksHarvested: factory.NewCounter(prometheus.CounterOpts{
			Name: "lxcorpus_links_harvested_total",
			Help: "The total number of article links accepted from archive pages",
		}),
		ArticlesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lxcorpus_articles_written_total",
			Help: "The total number of article files written",
		}, []string{"theme"}),
		ArticlesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lxcorpus_articles_skipped_total",
			Help: "The total number of articles skipped because their file already existed",
		}, []string{"theme"}),
		CorpusItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lxcorpus_corpus_items_total",
			Help: "The total number of texts collected into the corpus",
		}, []string{"theme"}),
	}
}

func (m *Metrics) IncFetch(stage string) {
	m.FetchesTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) IncFetchError(stage string) {
	m.FetchErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) AddLinksHarvested(n int) {
	m.LinksHarvested.Add(float64(n))
}

func (m *Metrics) IncArticleWritten(theme string) {
	m.ArticlesWritten.WithLabelValues(theme).Inc()
}

func (m *Metrics) IncArticleSkipped(theme string) {
	m.ArticlesSkipped.WithLabelValues(theme).Inc()
}

func (m *Metrics) IncCorpusItem(theme string) {
	m.CorpusItems.WithLabelValues(theme).Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector or for inspection after a run.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
