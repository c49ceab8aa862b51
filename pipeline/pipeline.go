// Package pipeline runs the corpus build end to end: archive links, article
// links, theme selection, scraping and aggregation, strictly in that order.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/lxcorpus/archive"
	"github.com/pevans/lxcorpus/config"
	"github.com/pevans/lxcorpus/corpus"
	"github.com/pevans/lxcorpus/discovery"
	"github.com/pevans/lxcorpus/logging"
	"github.com/pevans/lxcorpus/metrics"
	"github.com/pevans/lxcorpus/themes"
	"go.uber.org/zap"
)

// Options holds the collaborators of a run. Only Config and Fetcher are
// required.
type Options struct {
	Config   *config.Config
	Fetcher  discovery.Fetcher
	Recorder corpus.Recorder
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Progress io.Writer
	RunID    uuid.UUID
}

// Pipeline is one configured corpus build.
type Pipeline struct {
	cfg      *config.Config
	fetcher  discovery.Fetcher
	recorder corpus.Recorder
	metrics  *metrics.Metrics
	logger   *zap.Logger
	progress io.Writer
	runID    uuid.UUID
}

// Summary reports what a run produced.
type Summary struct {
	RunID        uuid.UUID
	ArchiveLinks int
	ArticleLinks int
	Themes       []themes.ThemeCount
	Scrape       *corpus.ScrapeResult
	CorpusItems  int
	CorpusPath   string
	Elapsed      time.Duration
}

// New creates a pipeline. Missing optional collaborators get defaults: a
// fresh registry, a no-op logger, a discarded progress stream and a random
// run ID.
func New(opts Options) *Pipeline {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}

	return &Pipeline{
		cfg:      opts.Config,
		fetcher:  opts.Fetcher,
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		progress: opts.Progress,
		runID:    opts.RunID,
	}
}

// Run executes every stage once. Fetch failures are logged and skipped;
// filesystem, ledger and cancellation errors abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: p.runID}
	log := p.logger.With(zap.String("run_id", p.runID.String()))

	log.Info("starting run",
		zap.String("input", p.cfg.Input),
		zap.Int("year_start", p.cfg.YearStart),
		zap.Int("year_end", p.cfg.YearEnd))

	archiveLinks, err := p.archiveLinks(log)
	if err != nil {
		return summary, err
	}
	summary.ArchiveLinks = archive.Count(archiveLinks)

	articleLinks, err := p.articleLinks(ctx, log, archiveLinks)
	if err != nil {
		return summary, err
	}
	links := flatten(articleLinks)
	summary.ArticleLinks = len(links)

	ranked, buckets := p.selectThemes(log, links)
	summary.Themes = ranked

	result, err := p.scrape(ctx, log, buckets)
	summary.Scrape = result
	if err != nil {
		return summary, err
	}

	c, path, err := p.buildCorpus(log)
	if err != nil {
		return summary, err
	}
	summary.CorpusItems = c.Len()
	summary.CorpusPath = path

	if p.cfg.MetricsFile != "" {
		if err := p.metrics.WriteTextfile(p.cfg.Resolve(p.cfg.MetricsFile)); err != nil {
			return summary, err
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// archiveLinks generates the archive URLs and persists them, or reads back
// the lists of an earlier run.
func (p *Pipeline) archiveLinks(log *zap.Logger) (map[int][]string, error) {
	defer logging.Track(log, "archive_links")()

	dir := p.cfg.Resolve(p.cfg.CorpusLinks)

	if !p.cfg.CreateNewArchiveLinks {
		links, err := archive.ReadLinks(dir, archive.KindArchives)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive links: %w", err)
		}
		log.Info("reusing archive links", zap.Int("links", archive.Count(links)))
		return links, nil
	}

	gen := archive.NewGenerator(archive.SiteArchiveURL(p.cfg.BaseURL))
	links := gen.Generate(p.cfg.YearStart, p.cfg.YearEnd,
		p.cfg.MonthStart, p.cfg.MonthEnd,
		p.cfg.DayStart, p.cfg.DayEnd)

	for _, year := range archive.Years(links) {
		if _, err := archive.WriteLinks(dir, archive.KindArchives, year, links[year]); err != nil {
			return nil, err
		}
	}

	log.Info("archive links generated", zap.Int("links", archive.Count(links)))
	return links, nil
}

// articleLinks harvests each year's archive pages into a link list file, or
// reads back the lists of an earlier run.
func (p *Pipeline) articleLinks(ctx context.Context, log *zap.Logger, archiveLinks map[int][]string) (map[int][]string, error) {
	defer logging.Track(log, "article_links")()

	dir := p.cfg.Resolve(p.cfg.CorpusLinks)

	if !p.cfg.GetNewArticleLinks {
		links, err := archive.ReadLinks(dir, archive.KindArticles)
		if err != nil {
			return nil, fmt.Errorf("failed to read article links: %w", err)
		}
		log.Info("reusing article links", zap.Int("links", archive.Count(links)))
		return links, nil
	}

	harvester := discovery.NewHarvester(p.fetcher, p.cfg.Scraper.ListConfig, p.metrics, log)
	links := make(map[int][]string)

	for _, year := range archive.Years(archiveLinks) {
		found, err := harvester.Harvest(ctx, archiveLinks[year])
		if err != nil {
			return nil, fmt.Errorf("failed to harvest %d: %w", year, err)
		}

		path, err := archive.WriteLinks(dir, archive.KindArticles, year, found)
		if err != nil {
			return nil, err
		}

		log.Info("article links harvested",
			zap.Int("year", year),
			zap.Int("links", len(found)),
			zap.String("path", path))
		links[year] = found
	}

	return links, nil
}

func (p *Pipeline) selectThemes(log *zap.Logger, links []string) ([]themes.ThemeCount, *themes.Buckets) {
	defer logging.Track(log, "select_themes")()

	counts := themes.Count(links)
	ranked := themes.Rank(counts, p.cfg.NTheme, p.cfg.NTopThemes)
	for _, tc := range ranked {
		log.Info("theme selected", zap.String("theme", tc.Theme), zap.Int("count", tc.Count))
	}

	buckets := themes.Classify(p.cfg.BaseURL, themes.Names(ranked), links)
	log.Info("links classified",
		zap.Int("themes_seen", len(counts)),
		zap.Int("themes_kept", len(ranked)),
		zap.Int("links", buckets.Len()))

	return ranked, buckets
}

func (p *Pipeline) scrape(ctx context.Context, log *zap.Logger, buckets *themes.Buckets) (*corpus.ScrapeResult, error) {
	defer logging.Track(log, "scrape_articles")()

	root := p.cfg.Resolve(p.cfg.CorpusDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create corpus directory: %w", err)
	}

	s := corpus.NewScraper(corpus.ScraperOptions{
		Root:     root,
		Fetcher:  p.fetcher,
		Config:   p.cfg.Scraper.ArticleConfig,
		Mode:     p.cfg.Mode(),
		Recorder: p.recorder,
		Metrics:  p.metrics,
		Logger:   log,
		Progress: p.progress,
	})

	result, err := s.Scrape(ctx, buckets)
	if err != nil {
		return result, fmt.Errorf("failed to scrape articles: %w", err)
	}

	log.Info("articles scraped",
		zap.Int("written", result.Written),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (p *Pipeline) buildCorpus(log *zap.Logger) (*corpus.Corpus, string, error) {
	defer logging.Track(log, "build_corpus")()

	c, err := corpus.Build(p.cfg.Resolve(p.cfg.CorpusDir), p.cfg.MaxFilesPerTheme)
	if err != nil {
		return nil, "", err
	}

	path := p.cfg.Resolve(p.cfg.CorpusFile)
	if err := corpus.Save(path, c); err != nil {
		return nil, "", err
	}

	for _, label := range c.Label {
		p.metrics.IncCorpusItem(label)
	}

	log.Info("corpus saved", zap.Int("items", c.Len()), zap.String("path", path))
	return c, path, nil
}

// flatten concatenates the per-year lists in ascending year order.
func flatten(byYear map[int][]string) []string {
	var links []string
	for _, year := range archive.Years(byYear) {
		links = append(links, byYear[year]...)
	}
	return links
}
