package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/lxcorpus/metrics"
	"github.com/pevans/lxcorpus/scraper"
	"go.uber.org/zap"
)

// Harvester collects free, non-video article links from archive pages.
type Harvester struct {
	fetcher Fetcher
	config  scraper.ListConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHarvester creates a harvester.
func NewHarvester(fetcher Fetcher, config scraper.ListConfig, m *metrics.Metrics, logger *zap.Logger) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

// Harvest fetches each archive page in order and returns the accepted article
// links, duplicates included. A page that cannot be fetched is logged and
// skipped. Only context cancellation stops the loop early.
func (h *Harvester) Harvest(ctx context.Context, archiveLinks []string) ([]string, error) {
	var links []string

	for _, archiveURL := range archiveLinks {
		if err := ctx.Err(); err != nil {
			return links, err
		}

		h.metrics.IncFetch(metrics.StageArchive)

		doc, err := h.fetcher.Fetch(ctx, archiveURL)
		if err != nil {
			h.metrics.IncFetchError(metrics.StageArchive)
			h.logger.Warn("url not valid", zap.String("url", archiveURL), zap.Error(err))
			continue
		}

		found := HarvestPage(doc, h.config)
		h.logger.Debug("archive page harvested", zap.String("url", archiveURL), zap.Int("links", len(found)))
		h.metrics.AddLinksHarvested(len(found))
		links = append(links, found...)
	}

	return links, nil
}

// HarvestPage applies the teaser filter to one archive page: teasers with a
// premium marker are skipped, then the first anchor's href is taken unless it
// is missing or carries the video marker.
func HarvestPage(doc *goquery.Document, config scraper.ListConfig) []string {
	var links []string

	doc.Find(config.TeaserSelector).Each(func(i int, teaser *goquery.Selection) {
		if teaser.Find(config.PremiumSelector).Length() > 0 {
			return
		}

		href, ok := teaser.Find(config.LinkSelector).First().Attr("href")
		if !ok || href == "" {
			return
		}

		if strings.Contains(href, config.VideoMarker) {
			return
		}

		links = append(links, href)
	})

	return links
}
