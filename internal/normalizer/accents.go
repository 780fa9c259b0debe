package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks ("Partagás" -> "Partagas").
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Fold produces the comparison form used for alias lookups: diacritics removed,
// non-Chinese runes transliterated to ASCII, lower-cased, and every run of
// non-alphanumeric runes turned into a single space. Chinese runs are kept and
// split off from adjacent Latin text.
func Fold(s string) string {
	var b strings.Builder
	inChinese := false
	for _, r := range StripDiacritics(s) {
		if isChinese(r) != inChinese {
			b.WriteByte(' ')
			inChinese = !inChinese
		}
		switch {
		case inChinese:
			b.WriteRune(r)
		case r < unicode.MaxASCII:
			b.WriteRune(r)
		default:
			b.WriteString(unidecode.Unidecode(string(r)))
		}
	}

	lowered := strings.ToLower(b.String())
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}

// ContainsWord reports whether phrase occurs in the folded haystack on word
// boundaries. Both arguments must already be folded.
func ContainsWord(foldedHaystack, foldedPhrase string) bool {
	if foldedPhrase == "" {
		return false
	}
	return strings.Contains(" "+foldedHaystack+" ", " "+foldedPhrase+" ")
}
