package main

import (
	"errors"

	"github.com/pevans/lxcorpus/config"
	"github.com/pevans/lxcorpus/corpus"
	"github.com/pevans/lxcorpus/nouns"
	"github.com/spf13/cobra"
)

var nounsOutput string

var nounsCmd = &cobra.Command{
	Use:   "nouns [corpus.json]",
	Short: "Extract noun candidates from a corpus",
	Long: `Reads a corpus written by lxcorpus and lists the word following each
indefinite article ("un", "une") as a noun candidate with its gender and the
surrounding phrase. The candidates are written as CSV.

Without arguments the corpus_file and nouns_csv settings of the config file
are used; the config file is optional for this command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNouns,
}

func init() {
	nounsCmd.Flags().StringVarP(&nounsOutput, "output", "o", "", "CSV file to write (default: nouns_csv from the config)")
	rootCmd.AddCommand(nounsCmd)
}

func runNouns(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFile(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = config.Default()
	} else if err != nil {
		return err
	}

	corpusPath := cfg.Resolve(cfg.CorpusFile)
	if len(args) > 0 {
		corpusPath = args[0]
	}
	output := cfg.Resolve(cfg.NounsCSV)
	if nounsOutput != "" {
		output = nounsOutput
	}

	c, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}

	candidates := nouns.ExtractAll(c.Text)
	if err := nouns.WriteCSVFile(output, candidates); err != nil {
		return err
	}

	cmd.Printf("Wrote %d noun candidates from %d texts to %s\n", len(candidates), c.Len(), output)
	return nil
}
