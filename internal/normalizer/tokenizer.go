package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reChineseRun = regexp.MustCompile(`[\x{4E00}-\x{9FA5}]+`)
	reLatinRun   = regexp.MustCompile(`[\p{Latin}0-9]+`)
)

const (
	minChineseTermLen = 2
	minLatinTermLen   = 3
)

func isChinese(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FA5
}

// HasChineseCharacters reports whether s contains a CJK unified ideograph (U+4E00 to U+9FA5).
func HasChineseCharacters(s string) bool {
	for _, r := range s {
		if isChinese(r) {
			return true
		}
	}
	return false
}

// ExtractChineseCharacters returns the maximal Chinese runs of s in order.
func ExtractChineseCharacters(s string) []string {
	return reChineseRun.FindAllString(s, -1)
}

// SplitIntoSemanticUnits splits on whitespace after detaching Chinese runs
// from any Latin text they are glued to.
func SplitIntoSemanticUnits(text string) []string {
	padded := reChineseRun.ReplaceAllString(text, " $0 ")
	return strings.Fields(padded)
}

// ExtractTerms returns the salient terms of a title, unique and in order of
// first occurrence. Raw dimension and count expressions found in the original
// title are appended verbatim.
func (tn *TitleNormalizer) ExtractTerms(title string) []string {
	filtered := tn.FilterNoiseWords(tn.NormalizeTitle(title))

	var terms []string
	if HasChineseCharacters(filtered) {
		for _, run := range ExtractChineseCharacters(filtered) {
			if utf8.RuneCountInString(run) >= minChineseTermLen {
				terms = append(terms, run)
			}
		}
		for _, run := range reLatinRun.FindAllString(filtered, -1) {
			if tn.keepLatinToken(run) {
				terms = append(terms, run)
			}
		}
	} else {
		for _, tok := range strings.Fields(filtered) {
			if tn.keepLatinToken(tok) {
				terms = append(terms, tok)
			}
		}
	}

	if dim := FindDimensionExpr(title); dim != "" {
		terms = append(terms, dim)
	}
	if count := FindCountExpr(title); count != "" {
		terms = append(terms, count)
	}

	return dedupe(terms)
}

func (tn *TitleNormalizer) keepLatinToken(tok string) bool {
	return utf8.RuneCountInString(tok) >= minLatinTermLen && !tn.vocab.IsStopWord(tok)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
