package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// DefaultThreshold is the minimum similarity FindSimilarWords keeps by default.
const DefaultThreshold = 0.8

// Match is a candidate word with its similarity to the query.
type Match struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// NormalizedLevenshtein returns 1 - distance/maxLen over lower-cased, trimmed
// inputs, with lengths counted in runes. Two empty strings score 0.
func NormalizedLevenshtein(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// FindSimilarWords returns candidates scoring at least threshold, best first.
// Equal scores keep candidate order.
func FindSimilarWords(word string, candidates []string, threshold float64) []Match {
	var out []Match
	for _, c := range candidates {
		if s := NormalizedLevenshtein(word, c); s >= threshold {
			out = append(out, Match{Word: c, Similarity: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

// JaroWinkler scores lower-cased inputs with the usual 0.7 boost threshold and 4-rune prefix.
func JaroWinkler(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}
