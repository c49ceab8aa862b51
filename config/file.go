package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/lxcorpus/corpus"
	"github.com/pevans/lxcorpus/scraper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "config.yaml"

// Configuration errors.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrNegativeThreshold  = errors.New("n_theme must be non-negative")
	ErrNegativeTopThemes  = errors.New("n_top_themes must be non-negative")
	ErrNegativeMaxFiles   = errors.New("max_files_per_theme must be non-negative")
	ErrNegativeTimeout    = errors.New("fetch_timeout must be non-negative")
	ErrMissingCorpusDir   = errors.New("corpus_dir is required")
	ErrMissingCorpusFile  = errors.New("corpus_file is required")
	ErrMissingCorpusLinks = errors.New("corpus_links is required")
)

// Config holds the run parameters read from config.yaml.
type Config struct {
	CreateNewArchiveLinks bool `yaml:"create_new_archive_links"`
	GetNewArticleLinks    bool `yaml:"get_new_article_links"`

	YearStart  int `yaml:"year_start"`
	YearEnd    int `yaml:"year_end"`
	MonthStart int `yaml:"month_start"`
	MonthEnd   int `yaml:"month_end"`
	DayStart   int `yaml:"day_start"`
	DayEnd     int `yaml:"day_end"`

	// Directory, relative to Input, for the lemonde_<year>_*.txt lists.
	CorpusLinks string `yaml:"corpus_links"`
	// Themes must be seen strictly more often than this to be scraped.
	NTheme           int    `yaml:"n_theme"`
	NTopThemes       int    `yaml:"n_top_themes"`
	MaxFilesPerTheme int    `yaml:"max_files_per_theme"`
	LoggingLevel     string `yaml:"logging_level"`

	// Base directory for every relative output path. Set from the first
	// command line argument when given.
	Input string `yaml:"input"`

	CorpusDir   string `yaml:"corpus_dir"`
	CorpusFile  string `yaml:"corpus_file"`
	LogFile     string `yaml:"log_file"`
	LedgerPath  string `yaml:"ledger_path"`
	MetricsFile string `yaml:"metrics_file"`
	NounsCSV    string `yaml:"nouns_csv"`

	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	WriteMode    string        `yaml:"write_mode"`

	Scraper scraper.ScraperConfig `yaml:"scraper"`
}

// Default returns the configuration used for keys absent from the file.
func Default() *Config {
	return &Config{
		CreateNewArchiveLinks: true,
		GetNewArticleLinks:    true,
		YearStart:             2021,
		YearEnd:               2021,
		MonthStart:            1,
		MonthEnd:              1,
		DayStart:              1,
		DayEnd:                1,
		CorpusLinks:           "corpus_links",
		NTheme:                0,
		NTopThemes:            5,
		MaxFilesPerTheme:      corpus.DefaultMaxFilesPerTheme,
		LoggingLevel:          "INFO",
		Input:                 ".",
		CorpusDir:             "corpus",
		CorpusFile:            "lx_corpus.json",
		LogFile:               "lxcorpus.log",
		LedgerPath:            "lxcorpus.db",
		NounsCSV:              "les_noms.csv",
		BaseURL:               "https://www.lemonde.fr",
		UserAgent:             "lxcorpus/1.0 (+corpus builder)",
		WriteMode:             string(corpus.WriteSkip),
		Scraper:               scraper.DefaultConfig(),
	}
}

// LoadConfigFile reads a YAML config file over the defaults. A missing file
// returns an error wrapping ErrConfigNotFound.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Scraper = cfg.Scraper.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load reads the config file and applies the command line arguments.
func Load(path string, args []string) (*Config, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyArgs(args)
	return cfg, nil
}

// ApplyArgs sets Input from the first positional argument.
func (c *Config) ApplyArgs(args []string) {
	if len(args) > 0 && args[0] != "" {
		c.Input = args[0]
	}
}

// Validate checks the values the pipeline cannot run with. Date ranges are
// not checked, and neither is the logging level: an unknown level is
// reported when the logger is configured.
func (c *Config) Validate() error {
	if c.NTheme < 0 {
		return ErrNegativeThreshold
	}
	if c.NTopThemes < 0 {
		return ErrNegativeTopThemes
	}
	if c.MaxFilesPerTheme < 0 {
		return ErrNegativeMaxFiles
	}
	if c.FetchTimeout < 0 {
		return ErrNegativeTimeout
	}
	if c.CorpusDir == "" {
		return ErrMissingCorpusDir
	}
	if c.CorpusFile == "" {
		return ErrMissingCorpusFile
	}
	if c.CorpusLinks == "" {
		return ErrMissingCorpusLinks
	}
	if _, err := corpus.ParseWriteMode(c.WriteMode); err != nil {
		return err
	}
	return nil
}

// Resolve joins a relative path onto Input. Absolute and empty paths are
// returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Input, path)
}

// Mode returns the parsed write mode.
func (c *Config) Mode() corpus.WriteMode {
	mode, err := corpus.ParseWriteMode(c.WriteMode)
	if err != nil {
		return corpus.WriteSkip
	}
	return mode
}
