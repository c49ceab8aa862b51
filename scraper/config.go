package scraper

// ScraperConfig defines how links and articles are extracted from the site.
type ScraperConfig struct {
	ListConfig    ListConfig    `yaml:"list_config"`
	ArticleConfig ArticleConfig `yaml:"article_config"`
}

// ListConfig defines how article links are discovered on archive pages.
type ListConfig struct {
	TeaserSelector  string `yaml:"teaser_selector"`
	PremiumSelector string `yaml:"premium_selector"`
	LinkSelector    string `yaml:"link_selector"`
	// Links whose href contains this marker are live/video pages.
	VideoMarker string `yaml:"video_marker"`
}

// ArticleConfig defines how the title and body are pulled from an article
// page.
type ArticleConfig struct {
	TitleSelector     string `yaml:"title_selector"`
	ContainerSelector string `yaml:"container_selector"`
	// Only direct children of the container matching this selector are kept.
	BlockSelector string `yaml:"block_selector"`
}

// NewListConfig creates a list configuration matching lemonde.fr archive
// pages.
func NewListConfig() ListConfig {
	return ListConfig{
		TeaserSelector:  ".teaser",
		PremiumSelector: "span.icon__premium",
		LinkSelector:    "a",
		VideoMarker:     "en-direct",
	}
}

// NewArticleConfig creates an article configuration matching lemonde.fr
// article pages.
func NewArticleConfig() ArticleConfig {
	return ArticleConfig{
		TitleSelector:     "h1",
		ContainerSelector: "article",
		BlockSelector:     "p, h2",
	}
}

// DefaultConfig returns the lemonde.fr selectors.
func DefaultConfig() ScraperConfig {
	return ScraperConfig{
		ListConfig:    NewListConfig(),
		ArticleConfig: NewArticleConfig(),
	}
}

// WithDefaults fills any empty selector from DefaultConfig.
func (c ScraperConfig) WithDefaults() ScraperConfig {
	d := DefaultConfig()

	if c.ListConfig.TeaserSelector == "" {
		c.ListConfig.TeaserSelector = d.ListConfig.TeaserSelector
	}
	if c.ListConfig.PremiumSelector == "" {
		c.ListConfig.PremiumSelector = d.ListConfig.PremiumSelector
	}
	if c.ListConfig.LinkSelector == "" {
		c.ListConfig.LinkSelector = d.ListConfig.LinkSelector
	}
	if c.ListConfig.VideoMarker == "" {
		c.ListConfig.VideoMarker = d.ListConfig.VideoMarker
	}
	if c.ArticleConfig.TitleSelector == "" {
		c.ArticleConfig.TitleSelector = d.ArticleConfig.TitleSelector
	}
	if c.ArticleConfig.ContainerSelector == "" {
		c.ArticleConfig.ContainerSelector = d.ArticleConfig.ContainerSelector
	}
	if c.ArticleConfig.BlockSelector == "" {
		c.ArticleConfig.BlockSelector = d.ArticleConfig.BlockSelector
	}

	return c
}
