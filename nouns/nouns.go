// Package nouns pulls noun candidates and their grammatical gender out of
// French text: the token following an indefinite article ("un", "une") is a
// noun unless a simple rule says otherwise.
package nouns

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// PhraseTokens is the maximum phrase length recorded with a candidate,
// counted from the article.
const PhraseTokens = 10

// Header is the CSV column order.
var Header = []string{"nom", "gender", "phrase", "score", "n", "nom_gndr"}

// articleGender maps an indefinite article to the gender it marks.
var articleGender = map[string]string{
	"un":  "m",
	"une": "f",
}

// preNominal lists adjectives usually placed before the noun; the token after
// the article is then an adjective, not the noun.
var preNominal = toSet(
	"beau", "bon", "bref", "grand", "gros", "faux", "haut", "jeune", "joli", "mauvais", "meilleur",
	"nouveau", "petit", "vieux",
	"bel", "belle", "bonne", "grande", "grosse", "haute", "jolie", "mauvaise", "meilleure",
	"nouvelle", "petite", "vielle",
	"ancien", "ancienne", "brave", "certain", "certaine", "cher", "chere", "curieux", "curieuse",
	"dernier", "derniere", "drole", "pauvre", "prochain", "prochaine", "propre", "pur", "pure",
	"sacre", "sale", "seul", "seule", "simple", "vrai", "vraie",
	"severe", "immense", "profond", "profonde", "tel", "telle", "meme", "nécessaire", "ou",
	"démence",
)

// punctuation is replaced by spaces before splitting.
var punctuation = strings.NewReplacer("’", " ", ",", " ", ".", " ", "“", " ")

// Candidate is one extracted noun occurrence.
type Candidate struct {
	Nom    string
	Gender string
	Phrase string
	Score  int
	N      int
}

// NomGender returns the "<nom>_<gender>" key.
func (c Candidate) NomGender() string {
	return c.Nom + "_" + c.Gender
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Tokenize strips the punctuation marks and splits on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(punctuation.Replace(text))
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// IsUpper reports whether s has at least one letter and no lowercase letter.
func IsUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// IsNoun reports whether the token after an article is kept as a noun: no
// digits, not an acronym, not a pre-nominal adjective.
func IsNoun(token string) bool {
	if HasDigit(token) || IsUpper(token) {
		return false
	}
	_, adjective := preNominal[token]
	return !adjective
}

// Extract scans one text and returns its candidates in order.
func Extract(text string) []Candidate {
	tokens := Tokenize(text)
	var candidates []Candidate

	for i, token := range tokens {
		gender, ok := articleGender[strings.ToLower(token)]
		if !ok || i+1 >= len(tokens) {
			continue
		}

		next := tokens[i+1]
		if !IsNoun(next) {
			continue
		}

		end := min(i+PhraseTokens, len(tokens))
		candidates = append(candidates, Candidate{
			Nom:    next,
			Gender: gender,
			Phrase: strings.Join(tokens[i:end], " "),
		})
	}

	return candidates
}

// ExtractAll runs Extract over every text, drops repeated (nom, gender,
// phrase) rows and sorts by nom, keeping first-seen order among equals.
func ExtractAll(texts []string) []Candidate {
	type key struct{ nom, gender, phrase string }
	seen := make(map[key]struct{})

	var all []Candidate
	for _, text := range texts {
		for _, c := range Extract(text) {
			k := key{c.Nom, c.Gender, c.Phrase}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			all = append(all, c)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Nom < all[j].Nom
	})
	return all
}

// WriteCSV writes the header and one row per candidate.
func WriteCSV(w io.Writer, candidates []Candidate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range candidates {
		row := []string{c.Nom, c.Gender, c.Phrase, strconv.Itoa(c.Score), strconv.Itoa(c.N), c.NomGender()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes candidates to path, replacing any previous file.
func WriteCSVFile(path string, candidates []Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}

	if err := WriteCSV(f, candidates); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
