package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pevans/lxcorpus/discovery"
	"github.com/pevans/lxcorpus/ledger"
	"github.com/pevans/lxcorpus/metrics"
	"github.com/pevans/lxcorpus/scraper"
	"github.com/pevans/lxcorpus/themes"
	"go.uber.org/zap"
)

// WriteMode decides what happens when an article file already exists.
type WriteMode string

const (
	// WriteSkip leaves an existing file alone and does not fetch the page.
	WriteSkip WriteMode = "skip"
	// WriteOverwrite fetches again and replaces the file.
	WriteOverwrite WriteMode = "overwrite"
	// WriteAppend fetches again and appends to the file, duplicating content
	// on repeated runs.
	WriteAppend WriteMode = "append"
)

// ErrInvalidWriteMode is returned by ParseWriteMode.
var ErrInvalidWriteMode = errors.New("write_mode must be one of: skip, overwrite, append")

// ParseWriteMode validates a write mode name. Empty means WriteSkip.
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case "":
		return WriteSkip, nil
	case WriteSkip, WriteOverwrite, WriteAppend:
		return WriteMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWriteMode, s)
}

// Recorder receives the outcome of every article. *ledger.Ledger implements
// it.
type Recorder interface {
	Record(url, theme, path, status string, scrapeErr error) error
}

// ScraperOptions configures a Scraper.
type ScraperOptions struct {
	Root     string
	Fetcher  discovery.Fetcher
	Config   scraper.ArticleConfig
	Mode     WriteMode
	Recorder Recorder // optional
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Progress io.Writer // optional
}

// Scraper downloads classified articles into Root/<theme>/<stem>.txt.
type Scraper struct {
	root     string
	fetcher  discovery.Fetcher
	config   scraper.ArticleConfig
	mode     WriteMode
	recorder Recorder
	metrics  *metrics.Metrics
	logger   *zap.Logger
	progress io.Writer
}

// ScrapeResult summarises a Scrape call.
type ScrapeResult struct {
	Written int
	Skipped int
	Failed  int
}

// NewScraper creates a scraper.
func NewScraper(opts ScraperOptions) *Scraper {
	if opts.Mode == "" {
		opts.Mode = WriteSkip
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Scraper{
		root:     opts.Root,
		fetcher:  opts.Fetcher,
		config:   opts.Config,
		mode:     opts.Mode,
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Scrape processes the buckets theme by theme, one link at a time. A page
// that cannot be fetched or parsed is logged and skipped. Filesystem and
// ledger errors stop the run.
func (s *Scraper) Scrape(ctx context.Context, buckets *themes.Buckets) (*ScrapeResult, error) {
	result := &ScrapeResult{}

	for _, theme := range buckets.Themes {
		dir := filepath.Join(s.root, theme)
		if err := s.ensureDir(dir); err != nil {
			return result, err
		}

		s.logger.Info("processing theme", zap.String("theme", theme))

		links := buckets.Links[theme]
		for i, link := range links {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			if err := s.scrapeOne(ctx, theme, dir, link, result); err != nil {
				return result, err
			}

			fmt.Fprintf(s.progress, "\r%s %d/%d", theme, i+1, len(links))
		}
		fmt.Fprintln(s.progress)
	}

	return result, nil
}

func (s *Scraper) scrapeOne(ctx context.Context, theme, dir, link string, result *ScrapeResult) error {
	s.logger.Debug("article", zap.String("url", link))

	stem := themes.FileStem(link)
	if stem == "" {
		s.logger.Warn("no file name in url", zap.String("url", link))
		result.Failed++
		return s.record(link, theme, "", ledger.StatusFailed, errors.New("no file name in url"))
	}
	path := filepath.Join(dir, stem+".txt")

	if s.mode == WriteSkip {
		if _, err := os.Stat(path); err == nil {
			result.Skipped++
			s.metrics.IncArticleSkipped(theme)
			return s.record(link, theme, path, ledger.StatusSkipped, nil)
		}
	}

	s.metrics.IncFetch(metrics.StageArticle)
	article, err := discovery.ScrapeArticle(ctx, s.fetcher, link, s.config)
	if err != nil {
		s.metrics.IncFetchError(metrics.StageArticle)
		s.logger.Warn("url not valid", zap.String("url", link), zap.Error(err))
		result.Failed++
		return s.record(link, theme, path, ledger.StatusFailed, err)
	}

	if err := s.write(path, article.Text()); err != nil {
		return err
	}

	result.Written++
	s.metrics.IncArticleWritten(theme)
	return s.record(link, theme, path, ledger.StatusScraped, nil)
}

func (s *Scraper) write(path, content string) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if s.mode == WriteAppend {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open article file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write article file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close article file: %w", err)
	}
	return nil
}

func (s *Scraper) record(url, theme, path, status string, scrapeErr error) error {
	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.Record(url, theme, path, status, scrapeErr); err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	return nil
}

// ensureDir creates dir; an existing directory is reported, not an error.
func (s *Scraper) ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		s.logger.Info("folder exists already", zap.String("path", dir))
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create theme directory: %w", err)
	}
	return nil
}
