package normalizer

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/product-matcher/internal/rules"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TitleNormalizer cleans supplier and catalog titles and extracts matchable terms.
// It holds only read-only tables and is safe for concurrent use.
type TitleNormalizer struct {
	vocab *rules.Vocabulary

	// Raw substring filter built from the filter list, longest alternative first.
	filterPattern *regexp.Regexp
}

// NewTitleNormalizer builds a normalizer over vocab; nil means the embedded vocabulary.
func NewTitleNormalizer(vocab *rules.Vocabulary) *TitleNormalizer {
	if vocab == nil {
		vocab = rules.Default()
	}
	tn := &TitleNormalizer{vocab: vocab}

	if len(vocab.FilterNoiseWords) > 0 {
		quoted := make([]string, len(vocab.FilterNoiseWords))
		for i, w := range vocab.FilterNoiseWords {
			quoted[i] = regexp.QuoteMeta(w)
		}
		tn.filterPattern = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	}
	return tn
}

// Vocabulary returns the tables the normalizer was built with.
func (tn *TitleNormalizer) Vocabulary() *rules.Vocabulary {
	return tn.vocab
}

// NormalizeTitle lower-cases the title, removes every rune that is not a letter,
// digit, whitespace or hyphen, drops noise words and collapses whitespace.
// The result is stable under repeated application.
func (tn *TitleNormalizer) NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}

	// Caser carries state, so one per call.
	s := cases.Lower(language.Und).String(norm.NFC.String(title))

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			return r
		}
		return -1
	}, s)

	s = tn.dropNoiseWords(s)
	return strings.Join(strings.Fields(s), " ")
}

// dropNoiseWords removes whole words, a word being a maximal run of Unicode letters and digits.
func (tn *TitleNormalizer) dropNoiseWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if w := s[start:end]; !tn.vocab.IsNoiseWord(w) {
			b.WriteString(w)
		}
		start = -1
	}

	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		b.WriteRune(r)
	}
	flush(len(s))
	return b.String()
}

// FilterNoiseWords strips packaging and marketing vocabulary by raw substring
// replacement. Unlike NormalizeTitle it ignores word boundaries, which is what
// unsegmented Chinese text needs.
func (tn *TitleNormalizer) FilterNoiseWords(text string) string {
	if tn.filterPattern == nil {
		return strings.Join(strings.Fields(text), " ")
	}
	s := tn.filterPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(s), " ")
}

var (
	defaultOnce       sync.Once
	defaultNormalizer *TitleNormalizer
)

// Default returns a shared normalizer over the embedded vocabulary.
func Default() *TitleNormalizer {
	defaultOnce.Do(func() {
		defaultNormalizer = NewTitleNormalizer(rules.Default())
	})
	return defaultNormalizer
}

// NormalizeTitle normalizes title with the embedded vocabulary.
func NormalizeTitle(title string) string {
	return Default().NormalizeTitle(title)
}

// FilterNoiseWords filters text with the embedded vocabulary.
func FilterNoiseWords(text string) string {
	return Default().FilterNoiseWords(text)
}

// ExtractTerms extracts terms with the embedded vocabulary.
func ExtractTerms(title string) []string {
	return Default().ExtractTerms(title)
}
