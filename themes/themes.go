// Package themes derives a topical section from lemonde.fr article URLs and
// groups links by section.
package themes

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultBaseURL is the site root that theme prefixes are built from.
const DefaultBaseURL = "https://www.lemonde.fr"

var themePattern = regexp.MustCompile(`\.fr/([^/]*)/`)

// ThemeCount is the number of links seen for one theme.
type ThemeCount struct {
	Theme string
	Count int
}

// Buckets holds the links of each theme, in the theme order they were
// classified in.
type Buckets struct {
	Themes []string
	Links  map[string][]string
}

// Len returns the total number of bucketed links.
func (b *Buckets) Len() int {
	n := 0
	for _, links := range b.Links {
		n += len(links)
	}
	return n
}

// ExtractTheme returns the path segment following ".fr/", e.g. "afrique" for
// https://www.lemonde.fr/afrique/article/2021/01/01/x.html. ok is false when
// the URL has no such segment.
func ExtractTheme(link string) (theme string, ok bool) {
	m := themePattern.FindStringSubmatch(link)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// FileStem returns the last path segment of a link without its extension.
func FileStem(link string) string {
	segment := link
	if i := strings.LastIndex(link, "/"); i >= 0 {
		segment = link[i+1:]
	}
	if i := strings.Index(segment, "."); i >= 0 {
		segment = segment[:i]
	}
	return segment
}

// Count tallies the theme of each link. Links without a theme are left out.
// The result is in order of first appearance.
func Count(links []string) []ThemeCount {
	index := make(map[string]int)
	var counts []ThemeCount

	for _, link := range links {
		theme, ok := ExtractTheme(link)
		if !ok {
			continue
		}
		if i, seen := index[theme]; seen {
			counts[i].Count++
			continue
		}
		index[theme] = len(counts)
		counts = append(counts, ThemeCount{Theme: theme, Count: 1})
	}

	return counts
}

// Rank sorts counts by count descending, keeping discovery order among
// equals, drops themes whose count is not strictly greater than minCount and
// keeps at most top of them. top <= 0 keeps every survivor.
func Rank(counts []ThemeCount, minCount, top int) []ThemeCount {
	ranked := make([]ThemeCount, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	var kept []ThemeCount
	for _, tc := range ranked {
		if tc.Count > minCount {
			kept = append(kept, tc)
		}
	}

	if top > 0 && len(kept) > top {
		kept = kept[:top]
	}
	return kept
}

// Names returns the theme names of counts.
func Names(counts []ThemeCount) []string {
	names := make([]string, len(counts))
	for i, tc := range counts {
		names[i] = tc.Theme
	}
	return names
}

// Prefix returns the article URL prefix of a theme, <baseURL>/<theme>/article/.
func Prefix(baseURL, theme string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + theme + "/article/"
}

// Classify buckets every link that starts with a theme's article prefix.
// Link order is preserved inside each bucket and links matching no theme are
// dropped.
func Classify(baseURL string, themes []string, links []string) *Buckets {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	buckets := &Buckets{Links: make(map[string][]string)}

	for _, theme := range themes {
		prefix := Prefix(baseURL, theme)
		var matched []string
		for _, link := range links {
			if strings.HasPrefix(link, prefix) {
				matched = append(matched, link)
			}
		}
		buckets.Themes = append(buckets.Themes, theme)
		buckets.Links[theme] = matched
	}

	return buckets
}
