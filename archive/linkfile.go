package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Link list kinds, used as the file name suffix.
const (
	KindArticles = "links"
	KindArchives = "archives"
)

// FileName returns the name of the list file for a year, e.g.
// lemonde_2021_links.txt.
func FileName(kind string, year int) string {
	return fmt.Sprintf("lemonde_%d_%s.txt", year, kind)
}

// WriteLinks writes one URL per line to dir/lemonde_<year>_<kind>.txt,
// replacing any previous list for that year.
func WriteLinks(dir, kind string, year int, links []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create link directory: %w", err)
	}

	path := filepath.Join(dir, FileName(kind, year))

	var b strings.Builder
	for _, link := range links {
		b.WriteString(link)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write link list: %w", err)
	}

	return path, nil
}

// ReadLinks loads every lemonde_<year>_<kind>.txt list found in dir. Blank
// lines are ignored. A missing directory yields an empty map.
func ReadLinks(dir, kind string) (map[int][]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[int][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read link directory: %w", err)
	}

	links := make(map[int][]string)
	suffix := "_" + kind + ".txt"

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "lemonde_") || !strings.HasSuffix(name, suffix) {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "lemonde_"), suffix))
		if err != nil {
			continue
		}

		urls, err := readLines(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		links[year] = urls
	}

	return links, nil
}

// Years returns the keys of a year map in ascending order.
func Years(links map[int][]string) []int {
	years := make([]int, 0, len(links))
	for y := range links {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open link list: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read link list %s: %w", filepath.Base(path), err)
	}

	return lines, nil
}
