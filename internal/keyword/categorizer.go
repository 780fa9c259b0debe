package keyword

import (
	"regexp"
	"strings"

	"github.com/product-matcher/internal/rules"
)

// Category is the semantic class of a keyword.
type Category string

const (
	CategoryBrand          Category = "brand"
	CategoryModel          Category = "model"
	CategoryVitola         Category = "vitola"
	CategorySpecialEdition Category = "special_edition"
	CategoryYear           Category = "year"
	CategoryCount          Category = "count"
	CategoryDimensions     Category = "dimensions"
	CategoryPackaging      Category = "packaging"
	CategoryGeneric        Category = "generic"
)

var (
	reDimensionTerm = regexp.MustCompile(`\d+\s*[xX×*/]\s*\d+`)
	reYearTerm      = regexp.MustCompile(`^(19|20)\d{2}$`)

	countPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\d+-count( box)?$`),
		regexp.MustCompile(`(?i)^count:\s*\d+$`),
		regexp.MustCompile(`^\d+支/盒$`),
		regexp.MustCompile(`^\d+支装$`),
	}
)

// ProductContext carries the known attributes of the product a keyword belongs to.
// Empty fields are ignored.
type ProductContext struct {
	Brand  string `json:"brand,omitempty"`
	Model  string `json:"model,omitempty"`
	Vitola string `json:"vitola,omitempty"`
}

// Categorizer assigns categories to keywords using the vocabulary tables.
type Categorizer struct {
	vocab *rules.Vocabulary
}

// NewCategorizer builds a categorizer over vocab; nil means the embedded vocabulary.
func NewCategorizer(vocab *rules.Vocabulary) *Categorizer {
	if vocab == nil {
		vocab = rules.Default()
	}
	return &Categorizer{vocab: vocab}
}

// CategorizeKeyword classifies a raw keyword, which may carry a "TAG:" prefix.
func (c *Categorizer) CategorizeKeyword(term string, ctx *ProductContext) Category {
	return c.Categorize(ParseTerm(term), ctx)
}

// Categorize classifies a term. The first matching rule wins: tag, dimension
// shape, count shape, year, product context (brand, model, vitola), then the
// vocabulary sets in file order.
func (c *Categorizer) Categorize(t Term, ctx *ProductContext) Category {
	if t.Tag != "" {
		if cat, ok := c.vocab.CategoryForTag(t.Tag); ok {
			return Category(cat)
		}
		return CategoryGeneric
	}

	text := strings.TrimSpace(t.Text)
	if text == "" {
		return CategoryGeneric
	}

	if reDimensionTerm.MatchString(text) {
		return CategoryDimensions
	}
	for _, re := range countPatterns {
		if re.MatchString(text) {
			return CategoryCount
		}
	}
	if reYearTerm.MatchString(text) {
		return CategoryYear
	}

	lower := strings.ToLower(text)
	if ctx != nil {
		if overlaps(lower, ctx.Brand) {
			return CategoryBrand
		}
		if overlaps(lower, ctx.Model) {
			return CategoryModel
		}
		if overlaps(lower, ctx.Vitola) {
			return CategoryVitola
		}
	}

	for _, set := range c.vocab.CategoryVocabularies {
		for _, w := range set.Terms {
			if strings.Contains(lower, w) {
				return Category(set.Label)
			}
		}
	}
	return CategoryGeneric
}

// overlaps reports a case-insensitive substring match in either direction.
func overlaps(lowerTerm, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return false
	}
	return strings.Contains(field, lowerTerm) || strings.Contains(lowerTerm, field)
}

var defaultCategorizer = NewCategorizer(nil)

// CategorizeKeyword classifies term with the embedded vocabulary.
func CategorizeKeyword(term string, ctx *ProductContext) Category {
	return defaultCategorizer.CategorizeKeyword(term, ctx)
}
