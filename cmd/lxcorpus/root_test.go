package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/lxcorpus/config"
	"github.com/pevans/lxcorpus/corpus"
	"github.com/pevans/lxcorpus/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		configPath = config.DefaultPath
		nounsOutput = ""
		ledgerStatus = ""
		ledgerFormat = "table"
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func stubSite(t *testing.T, pages map[string]string) {
	t.Helper()

	original := newFetcher
	newFetcher = func(*config.Config) discovery.Fetcher {
		return discovery.FetcherFunc(func(_ context.Context, url string) (*goquery.Document, error) {
			html, ok := pages[url]
			if !ok {
				return nil, &discovery.HTTPError{StatusCode: 404, Status: "404 Not Found"}
			}
			return goquery.NewDocumentFromReader(strings.NewReader(html))
		})
	}
	t.Cleanup(func() { newFetcher = original })
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "lxcorpus [input]", rootCmd.Use)
}

func TestRootCmd_Short(t *testing.T) {
	assert.Equal(t, "Build a theme-labeled corpus of Le Monde articles", rootCmd.Short)
}

func TestRootCmd_HasNounsCommand(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"nouns"})

	require.NoError(t, err)
	assert.Equal(t, nounsCmd, cmd)
}

func TestRootCmd_MissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, errOut, err := executeRoot(t, "--config", path)

	assert.ErrorIs(t, err, config.ErrConfigNotFound)
	assert.Contains(t, errOut, "config file "+path+" not found - aborting execution")
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	_, _, err := executeRoot(t, "a", "b")

	assert.Error(t, err)
}

func TestRootCmd_RunsPipeline(t *testing.T) {
	const (
		archive = "https://www.lemonde.fr/archives-du-monde/01-01-2021/"
		link    = "https://www.lemonde.fr/sport/article/2021/01/01/finale_1.html"
	)
	stubSite(t, map[string]string{
		archive: `<section class="teaser"><a href="` + link + `">Finale</a></section>`,
		link:    `<h1>Finale</h1><article><p>Un match.</p></article>`,
	})

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("year_start: 2021\nyear_end: 2021\nlogging_level: DEBUG\n"), 0o644))
	input := filepath.Join(dir, "run")

	out, _, err := executeRoot(t, "--config", cfgPath, input)
	require.NoError(t, err)

	assert.Contains(t, out, "\rsport 1/1")
	assert.Contains(t, out, "Run completed:")
	assert.Contains(t, out, "Archive pages: 1")
	assert.Contains(t, out, "Theme sport: 1 links")
	assert.Contains(t, out, "Corpus: 1 texts")

	c, err := corpus.Load(filepath.Join(input, "lx_corpus.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sport"}, c.Label)
	assert.Equal(t, "Finale\n\nUn match.\n\n", c.Text[0])

	logData, err := os.ReadFile(filepath.Join(input, "lxcorpus.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "CRITICAL")
	assert.Contains(t, string(logData), "complete | overall execution time = ")
	assert.Contains(t, string(logData), "scrape_articles | start |")

	_, err = os.Stat(filepath.Join(input, "lxcorpus.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(input, "corpus_links", "lemonde_2021_links.txt"))
	assert.NoError(t, err)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("write_mode: merge\n"), 0o644))

	_, _, err := executeRoot(t, "--config", cfgPath)

	assert.ErrorIs(t, err, corpus.ErrInvalidWriteMode)
}
