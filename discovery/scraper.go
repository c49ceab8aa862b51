package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/lxcorpus/scraper"
)

// DefaultUserAgent identifies the corpus builder to the site.
const DefaultUserAgent = "lxcorpus/1.0 (+corpus builder)"

// ErrNoArticleBody is returned when an article page has no article container.
var ErrNoArticleBody = errors.New("article container not found")

// HTTPError reports a response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// Fetcher retrieves a page and parses it into a document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*goquery.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches pages with a single blocking GET, no retries.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher creates a fetcher. A zero timeout leaves requests
// unbounded, so one hung host stalls the caller.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Fetch fetches HTML content from the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// Article is the text extracted from one article page.
type Article struct {
	URL    string
	Title  string
	Blocks []string
}

// Text renders the title and every body block, each followed by a blank
// line.
func (a *Article) Text() string {
	var b strings.Builder
	b.WriteString(a.Title)
	b.WriteString("\n\n")
	for _, block := range a.Blocks {
		b.WriteString(block)
		b.WriteString("\n\n")
	}
	return b.String()
}

// ExtractArticle takes the first title match as the title and the direct
// children of the first container matching the block selector as the body.
// Nested paragraphs (asides, embeds) are not part of the body.
func ExtractArticle(doc *goquery.Document, config scraper.ArticleConfig, articleURL string) (*Article, error) {
	container := doc.Find(config.ContainerSelector).First()
	if container.Length() == 0 {
		return nil, ErrNoArticleBody
	}

	article := &Article{
		URL:   articleURL,
		Title: strings.TrimSpace(doc.Find(config.TitleSelector).First().Text()),
	}

	container.ChildrenFiltered(config.BlockSelector).Each(func(i int, s *goquery.Selection) {
		article.Blocks = append(article.Blocks, strings.TrimSpace(s.Text()))
	})

	return article, nil
}

// ScrapeArticle fetches and extracts an article in one call.
func ScrapeArticle(ctx context.Context, fetcher Fetcher, url string, config scraper.ArticleConfig) (*Article, error) {
	doc, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	article, err := ExtractArticle(doc, config, url)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	return article, nil
}
