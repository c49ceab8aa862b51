package main

import (
	"encoding/json"
	"fmt"

	"github.com/pevans/lxcorpus/ledger"
	"github.com/spf13/cobra"
)

// printLedgerTable prints entries in human-readable table format
func printLedgerTable(cmd *cobra.Command, entries []ledger.Entry) {
	if len(entries) == 0 {
		cmd.Println("No entries to display.")
		return
	}

	cmd.Printf("%-8s %-12s %-19s %s\n", "STATUS", "THEME", "UPDATED", "URL")
	cmd.Println("----------------------------------------------------------------------------------------------------")

	for _, e := range entries {
		cmd.Printf("%-8s %-12s %-19s %s\n",
			e.Status,
			truncate(e.Theme, 12),
			e.UpdatedAt.Format("2006-01-02 15:04:05"),
			e.URL,
		)
		if e.LastError != nil {
			cmd.Printf("         error: %s\n", truncate(*e.LastError, 90))
		}
	}

	cmd.Printf("\n%d entries\n", len(entries))
}

// printLedgerCompact prints one line per entry
func printLedgerCompact(cmd *cobra.Command, entries []ledger.Entry) {
	for _, e := range entries {
		shortID := e.RunID.String()[:8]
		cmd.Printf("%s %s %s\n", shortID, e.Status, e.URL)
	}
}

// printLedgerJSON prints entries in JSON format
func printLedgerJSON(cmd *cobra.Command, entries []ledger.Entry) error {
	if entries == nil {
		entries = []ledger.Entry{}
	}

	output := map[string]any{
		"entries": entries,
		"total":   len(entries),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	cmd.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
