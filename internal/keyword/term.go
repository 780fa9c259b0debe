package keyword

import (
	"regexp"
	"strings"
)

// Tags used when the engine records where a term came from.
const (
	TagBrand     = "BRAND"
	TagVitola    = "VITOLA"
	TagSpecial   = "SPECIAL"
	TagYear      = "YEAR"
	TagCount     = "COUNT"
	TagDimension = "DIM"
	TagPackaging = "PACK"
)

var reTagged = regexp.MustCompile(`^([A-Z_]+):(.*)$`)

// Term is a keyword with optional provenance tag. The tag travels beside the
// text instead of inside it; String gives the legacy "TAG:value" form.
type Term struct {
	Text string `json:"text"`
	Tag  string `json:"tag,omitempty"`
}

// NewTerm builds a tagged term.
func NewTerm(tag, text string) Term {
	return Term{Text: text, Tag: tag}
}

// ParseTerm splits a "TAG:value" string. Strings without an upper-case tag
// prefix become untagged terms.
func ParseTerm(s string) Term {
	if m := reTagged.FindStringSubmatch(s); m != nil {
		return Term{Tag: m[1], Text: m[2]}
	}
	return Term{Text: s}
}

// String renders "TAG:value" for tagged terms and the bare text otherwise.
func (t Term) String() string {
	if t.Tag == "" {
		return t.Text
	}
	return t.Tag + ":" + t.Text
}

// Strings renders terms in their "TAG:value" form, the shape persisted by keyword stores.
func Strings(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}

// ParseTerms is the inverse of Strings.
func ParseTerms(raw []string) []Term {
	out := make([]Term, len(raw))
	for i, s := range raw {
		out[i] = ParseTerm(s)
	}
	return out
}

// Key identifies a term for de-duplication, ignoring case.
func (t Term) Key() string {
	return t.Tag + "\x1f" + strings.ToLower(t.Text)
}
