package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pevans/lxcorpus/ledger"
	"github.com/spf13/cobra"
)

var (
	ledgerStatus string
	ledgerFormat string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List the recorded article outcomes",
	Long: `Prints the scrape ledger: the last outcome (scraped, skipped or failed)
recorded for every article URL, with the run that recorded it. Use --status
to see only one outcome, e.g. the failures to retry.`,
	Args: cobra.NoArgs,
	RunE: runLedger,
}

func init() {
	ledgerCmd.Flags().StringVar(&ledgerStatus, "status", "", "only show entries with this status (scraped, skipped, failed)")
	ledgerCmd.Flags().StringVar(&ledgerFormat, "format", "table", "output format: table, compact or json")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.LedgerPath == "" {
		return errors.New("ledger is disabled (ledger_path is empty)")
	}

	switch ledgerStatus {
	case "", ledger.StatusScraped, ledger.StatusSkipped, ledger.StatusFailed:
	default:
		return fmt.Errorf("invalid status: %s", ledgerStatus)
	}

	path := cfg.Resolve(cfg.LedgerPath)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	l, err := ledger.Open(path, uuid.Nil)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.List(ledgerStatus)
	if err != nil {
		return err
	}

	switch ledgerFormat {
	case "table":
		printLedgerTable(cmd, entries)
	case "compact":
		printLedgerCompact(cmd, entries)
	case "json":
		return printLedgerJSON(cmd, entries)
	default:
		return fmt.Errorf("invalid format: %s", ledgerFormat)
	}
	return nil
}

