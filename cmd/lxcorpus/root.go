package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/lxcorpus/config"
	"github.com/pevans/lxcorpus/discovery"
	"github.com/pevans/lxcorpus/ledger"
	"github.com/pevans/lxcorpus/logging"
	"github.com/pevans/lxcorpus/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// newFetcher builds the page fetcher for a run. Tests replace it.
var newFetcher = func(cfg *config.Config) discovery.Fetcher {
	return discovery.NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent)
}

var rootCmd = &cobra.Command{
	Use:   "lxcorpus [input]",
	Short: "Build a theme-labeled corpus of Le Monde articles",
	Long: `Generates the daily archive pages for the configured date range,
harvests the free article links they list, keeps the most frequent themes
and scrapes their articles into <input>/corpus/<theme>/. The texts are then
collected into a single labeled JSON corpus.

Settings are read from config.yaml (see --config). The optional input
argument is the base directory for every output path.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipeline,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
}

// loadConfig reads the config file. A missing file is reported the same way
// by every command.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configPath, args)
	if errors.Is(err, config.ErrConfigNotFound) {
		cmd.PrintErrf("config file %s not found - aborting execution\n", configPath)
		return nil, err
	}
	return cfg, err
}

func runPipeline(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Input, 0o755); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}

	logger, err := logging.New(cfg.Resolve(cfg.LogFile))
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.SetLevel(cfg.LoggingLevel)
	log := logger.Named("lxcorpus")
	defer zap.ReplaceGlobals(log)()

	runID := uuid.New()
	opts := pipeline.Options{
		Config:   cfg,
		Fetcher:  newFetcher(cfg),
		Logger:   log,
		Progress: cmd.OutOrStdout(),
		RunID:    runID,
	}

	var l *ledger.Ledger
	if cfg.LedgerPath != "" {
		l, err = ledger.Open(cfg.Resolve(cfg.LedgerPath), runID)
		if err != nil {
			return err
		}
		defer l.Close()
		opts.Recorder = l
	}

	summary, err := pipeline.New(opts).Run(cmd.Context())
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}

	if l != nil {
		counts, err := l.Counts()
		if err != nil {
			return err
		}
		log.Info("ledger updated",
			zap.Int(ledger.StatusScraped, counts[ledger.StatusScraped]),
			zap.Int(ledger.StatusSkipped, counts[ledger.StatusSkipped]),
			zap.Int(ledger.StatusFailed, counts[ledger.StatusFailed]))
	}

	printSummary(cmd, summary)

	logging.Critical(log, fmt.Sprintf("complete | overall execution time = %.2f", time.Since(start).Seconds()))
	return nil
}

func printSummary(cmd *cobra.Command, s *pipeline.Summary) {
	cmd.Println()
	cmd.Println("Run completed:")
	cmd.Printf("  Run ID: %s\n", s.RunID)
	cmd.Printf("  Archive pages: %d\n", s.ArchiveLinks)
	cmd.Printf("  Article links: %d\n", s.ArticleLinks)
	for _, tc := range s.Themes {
		cmd.Printf("  Theme %s: %d links\n", tc.Theme, tc.Count)
	}
	if s.Scrape != nil {
		cmd.Printf("  Articles written: %d, skipped: %d, failed: %d\n",
			s.Scrape.Written, s.Scrape.Skipped, s.Scrape.Failed)
	}
	cmd.Printf("  Corpus: %d texts in %s\n", s.CorpusItems, s.CorpusPath)
}
