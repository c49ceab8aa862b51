// Package corpus persists scraped articles as a theme/file tree and
// aggregates that tree into the labeled corpus consumed downstream.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFilesPerTheme caps how many files of one theme are read.
const DefaultMaxFilesPerTheme = 1000

// Corpus is the labeled dataset: Text[i] was read from the directory of theme
// Label[i]. Both slices always have the same length.
type Corpus struct {
	Label []string `json:"label"`
	Text  []string `json:"text"`
}

// New returns an empty corpus that serializes with empty arrays.
func New() *Corpus {
	return &Corpus{Label: []string{}, Text: []string{}}
}

// Add appends one labeled text.
func (c *Corpus) Add(label, text string) {
	c.Label = append(c.Label, label)
	c.Text = append(c.Text, text)
}

// Len returns the number of items.
func (c *Corpus) Len() int {
	return len(c.Label)
}

// CountByLabel returns the number of items per label.
func (c *Corpus) CountByLabel() map[string]int {
	counts := make(map[string]int)
	for _, label := range c.Label {
		counts[label]++
	}
	return counts
}

// Build walks root and reads at most maxPerTheme files from each theme
// directory (maxPerTheme <= 0 means no cap). Directories and files whose
// name starts with "." are ignored; everything is visited in lexical order.
// File contents are taken as is.
func Build(root string, maxPerTheme int) (*Corpus, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	c := New()
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		if err := addTheme(c, filepath.Join(root, entry.Name()), entry.Name(), maxPerTheme); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func addTheme(c *Corpus, dir, theme string, maxPerTheme int) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read theme directory %s: %w", theme, err)
	}

	read := 0
	for _, file := range files {
		if maxPerTheme > 0 && read >= maxPerTheme {
			break
		}
		if file.IsDir() || strings.HasPrefix(file.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read file %s/%s: %w", theme, file.Name(), err)
		}

		c.Add(theme, string(data))
		read++
	}

	return nil
}

// Save writes the corpus as {"label": [...], "text": [...]}, replacing any
// previous file.
func Save(path string, c *Corpus) error {
	if len(c.Label) != len(c.Text) {
		return fmt.Errorf("corpus is inconsistent: %d labels for %d texts", len(c.Label), len(c.Text))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}

	return nil
}

// Load reads a corpus file written by Save.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus: %w", err)
	}

	if len(c.Label) != len(c.Text) {
		return nil, fmt.Errorf("corpus is inconsistent: %d labels for %d texts", len(c.Label), len(c.Text))
	}

	return c, nil
}
