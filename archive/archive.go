// Package archive generates lemonde.fr daily archive page URLs and persists
// the link lists produced from them.
package archive

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the root of the daily archive pages.
const DefaultBaseURL = "https://www.lemonde.fr/archives-du-monde/"

// ArchivePath is the archive root relative to the site URL.
const ArchivePath = "archives-du-monde/"

// SiteArchiveURL returns the archive root of a site, e.g.
// https://www.lemonde.fr -> https://www.lemonde.fr/archives-du-monde/.
func SiteArchiveURL(siteURL string) string {
	if siteURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(siteURL, "/") + "/" + ArchivePath
}

// Generator builds archive page URLs under a base URL.
type Generator struct {
	BaseURL string
}

// NewGenerator returns a generator for the given base URL. An empty base URL
// falls back to DefaultBaseURL.
func NewGenerator(baseURL string) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Generator{BaseURL: baseURL}
}

// Generate returns one archive URL per (day, month) pair for every year in
// the inclusive year range. Months are the outer loop and days the inner one,
// so the URLs of a year read 01-01, 02-01, ..., 01-02, 02-02, ...
//
// Day-of-month correctness is not checked: 31-02-2021 is produced if asked
// for. Inverted ranges produce no URLs for that dimension.
func (g *Generator) Generate(yearStart, yearEnd, monthStart, monthEnd, dayStart, dayEnd int) map[int][]string {
	links := make(map[int][]string)

	for y := yearStart; y <= yearEnd; y++ {
		var urls []string
		for m := monthStart; m <= monthEnd; m++ {
			for d := dayStart; d <= dayEnd; d++ {
				urls = append(urls, fmt.Sprintf("%s%02d-%02d-%d/", g.BaseURL, d, m, y))
			}
		}
		links[y] = urls
	}

	return links
}

// GenerateLinks is Generate on the default lemonde.fr archive root.
func GenerateLinks(yearStart, yearEnd, monthStart, monthEnd, dayStart, dayEnd int) map[int][]string {
	return NewGenerator(DefaultBaseURL).Generate(yearStart, yearEnd, monthStart, monthEnd, dayStart, dayEnd)
}

// Count returns the total number of URLs across all years.
func Count(links map[int][]string) int {
	n := 0
	for _, urls := range links {
		n += len(urls)
	}
	return n
}
