// Package fulltext splits event content into the search tokens the store
// indexes. Tokens are case folded with accents stripped, so "École" and
// "ecole" are the same token.
package fulltext

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxTokenLen caps the length in bytes of an indexed token; longer words are
// truncated.
const MaxTokenLen = 64

func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// Tokenize returns the distinct normalised words of s in order of first
// appearance.
func Tokenize(s string) (tokens []string) {
	seen := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(normalize(s),
		func(r rune) bool { return !isWordRune(r) }) {
		if len(w) > MaxTokenLen {
			w = truncate(w)
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return
}

// truncate cuts w to at most MaxTokenLen bytes on a rune boundary.
func truncate(w string) string {
	n := 0
	for i := range w {
		if i > MaxTokenLen {
			break
		}
		n = i
	}
	return w[:n]
}

// Match is true when every token of query occurs in content. A query without
// tokens matches everything.
func Match(content, query string) bool {
	q := Tokenize(query)
	if len(q) == 0 {
		return true
	}
	have := make(map[string]struct{})
	for _, t := range Tokenize(content) {
		have[t] = struct{}{}
	}
	for _, t := range q {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}
