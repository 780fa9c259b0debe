package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/product-matcher/internal/dimension"
	"github.com/product-matcher/internal/keyword"
	"github.com/product-matcher/internal/normalizer"
	"github.com/product-matcher/internal/rules"
)

// CatalogProduct is a read-only catalog record. SeatRow and SeatNumber carry
// ring gauge and length for cigars and are passed through as text.
type CatalogProduct struct {
	ID         string `json:"id" bson:"id"`
	SKU        string `json:"sku" bson:"sku"`
	Title      string `json:"title" bson:"title"`
	Brand      string `json:"brand,omitempty" bson:"brand,omitempty"`
	SeatRow    string `json:"seat_row,omitempty" bson:"seat_row,omitempty"`
	SeatNumber string `json:"seat_number,omitempty" bson:"seat_number,omitempty"`
}

// SupplierInfo is what the engine reads out of a supplier title.
type SupplierInfo struct {
	Brand      string         `json:"brand,omitempty"`
	Vitola     string         `json:"vitola,omitempty"`
	Dimensions dimension.Info `json:"dimension_info"`
}

// MatchResult is the best candidate for a title. Product is nil when no
// candidate scored above zero.
type MatchResult struct {
	Product      *CatalogProduct `json:"product"`
	Score        int             `json:"score"`
	MatchedTerms []keyword.Term  `json:"matched_terms"`
}

// ScoreBreakdown is the per-signal score of one candidate.
type ScoreBreakdown struct {
	Brand        int            `json:"brand"`
	Vitola       int            `json:"vitola"`
	Dimensions   int            `json:"dimensions"`
	TermOverlap  int            `json:"term_overlap"`
	Total        int            `json:"total"`
	MatchedTerms []keyword.Term `json:"matched_terms"`
}

type brandAlias struct {
	name    string
	alias   string // folded, or raw for Chinese aliases
	chinese bool
}

// Engine scores supplier titles against catalog candidates. It is stateless
// after construction and safe for concurrent use.
type Engine struct {
	normalizer *normalizer.TitleNormalizer
	vocab      *rules.Vocabulary
	weights    Weights

	aliases []brandAlias // longest first across all brands
	vitolas []string     // folded, longest first
}

// NewEngine builds an engine. A nil normalizer means the embedded vocabulary;
// zero weights take their defaults.
func NewEngine(tn *normalizer.TitleNormalizer, weights Weights) *Engine {
	if tn == nil {
		tn = normalizer.Default()
	}
	e := &Engine{
		normalizer: tn,
		vocab:      tn.Vocabulary(),
		weights:    weights.withDefaults(),
	}

	for _, b := range e.vocab.Brands {
		for _, a := range b.Aliases {
			if normalizer.HasChineseCharacters(a) {
				e.aliases = append(e.aliases, brandAlias{name: b.Name, alias: a, chinese: true})
			} else if f := normalizer.Fold(a); f != "" {
				e.aliases = append(e.aliases, brandAlias{name: b.Name, alias: f})
			}
		}
	}
	sort.SliceStable(e.aliases, func(i, j int) bool {
		return utf8.RuneCountInString(e.aliases[i].alias) > utf8.RuneCountInString(e.aliases[j].alias)
	})
	e.vitolas = e.vocab.Vitolas
	return e
}

// Weights returns the effective scoring weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Normalizer returns the normalizer the engine was built with.
func (e *Engine) Normalizer() *normalizer.TitleNormalizer {
	return e.normalizer
}

// ExtractSupplierInfo reads brand, vitola and dimensions from a title. Known
// brands are tried first, then extraBrands (usually the candidates' brands).
func (e *Engine) ExtractSupplierInfo(title string, extraBrands ...string) SupplierInfo {
	var info SupplierInfo
	if title == "" {
		return info
	}

	normalized := e.normalizer.NormalizeTitle(title)
	folded := normalizer.Fold(title)

	info.Brand = e.findBrand(normalized, folded, extraBrands)
	info.Vitola = e.findVitola(normalized, folded)
	if expr := normalizer.FindDimensionExpr(title); expr != "" {
		info.Dimensions = dimension.ParseDimensions(expr)
	}
	return info
}

func (e *Engine) findBrand(normalized, folded string, extra []string) string {
	for _, a := range e.aliases {
		if a.chinese {
			if strings.Contains(normalized, a.alias) {
				return a.name
			}
		} else if normalizer.ContainsWord(folded, a.alias) {
			return a.name
		}
	}
	for _, b := range extra {
		if strings.TrimSpace(b) == "" {
			continue
		}
		if normalizer.HasChineseCharacters(b) {
			if strings.Contains(normalized, strings.ToLower(b)) {
				return b
			}
		} else if normalizer.ContainsWord(folded, normalizer.Fold(b)) {
			return b
		}
	}
	return ""
}

func (e *Engine) findVitola(normalized, folded string) string {
	for _, v := range e.vitolas {
		if normalizer.HasChineseCharacters(v) {
			if strings.Contains(normalized, v) {
				return v
			}
		} else if normalizer.ContainsWord(folded, normalizer.Fold(v)) {
			return v
		}
	}
	return ""
}

// supplier is a title prepared once and scored against many candidates.
type supplier struct {
	info  SupplierInfo
	terms []string
}

// CandidateBrands lists the distinct non-empty candidate brands in input order.
func CandidateBrands(candidates []CatalogProduct) []string {
	brands := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Brand))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		brands = append(brands, c.Brand)
	}
	return brands
}

func (e *Engine) prepare(title string, candidates []CatalogProduct) supplier {
	brands := CandidateBrands(candidates)

	var terms []string
	for _, t := range e.normalizer.ExtractTerms(title) {
		if utf8.RuneCountInString(t) >= 3 {
			terms = append(terms, t)
		}
	}
	return supplier{
		info:  e.ExtractSupplierInfo(title, brands...),
		terms: terms,
	}
}

// ScoreCandidate scores a single candidate against title.
func (e *Engine) ScoreCandidate(title string, candidate CatalogProduct) ScoreBreakdown {
	if title == "" {
		return ScoreBreakdown{MatchedTerms: []keyword.Term{}}
	}
	return e.score(e.prepare(title, []CatalogProduct{candidate}), candidate)
}

func (e *Engine) score(s supplier, c CatalogProduct) ScoreBreakdown {
	w := e.weights
	b := ScoreBreakdown{MatchedTerms: []keyword.Term{}}
	seen := make(map[string]struct{})
	add := func(t keyword.Term) {
		if _, ok := seen[t.Key()]; ok {
			return
		}
		seen[t.Key()] = struct{}{}
		b.MatchedTerms = append(b.MatchedTerms, t)
	}

	if s.info.Brand != "" && c.Brand != "" && strings.EqualFold(s.info.Brand, strings.TrimSpace(c.Brand)) {
		b.Brand = w.Brand
		add(keyword.NewTerm(keyword.TagBrand, s.info.Brand))
	}

	candNormalized := e.normalizer.NormalizeTitle(c.Title)

	if v := s.info.Vitola; v != "" {
		if strings.Contains(candNormalized, strings.ToLower(v)) ||
			strings.Contains(normalizer.Fold(c.Title), normalizer.Fold(v)) {
			b.Vitola = w.Vitola
			add(keyword.NewTerm(keyword.TagVitola, v))
		}
	}

	if e.dimensionsMatch(s.info.Dimensions, c) {
		b.Dimensions = w.Dimension
		add(keyword.NewTerm(keyword.TagDimension, dimension.FormatDimensions(strings.TrimSpace(c.SeatRow), strings.TrimSpace(c.SeatNumber))))
	}

	units := make(map[string]struct{})
	for _, u := range normalizer.SplitIntoSemanticUnits(candNormalized) {
		units[u] = struct{}{}
	}
	shared := 0
	for _, t := range s.terms {
		if _, ok := units[t]; ok {
			shared++
			add(keyword.Term{Text: t})
		}
	}
	b.TermOverlap = shared * w.TermOverlap
	if b.TermOverlap > w.TermOverlapCap {
		b.TermOverlap = w.TermOverlapCap
	}

	b.Total = b.Brand + b.Vitola + b.Dimensions + b.TermOverlap
	return b
}

func (e *Engine) dimensionsMatch(sup dimension.Info, c CatalogProduct) bool {
	sRing, ok1 := sup.RingGaugeValue()
	sLen, ok2 := sup.LengthValue()
	cand := dimension.Info{RingGauge: strings.TrimSpace(c.SeatRow), Length: strings.TrimSpace(c.SeatNumber)}
	cRing, ok3 := cand.RingGaugeValue()
	cLen, ok4 := cand.LengthValue()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return math.Abs(sRing-cRing) <= e.weights.RingTolerance &&
		math.Abs(sLen-cLen) <= e.weights.LengthTolerance
}

// GetBestMatch returns the highest scoring candidate. The first candidate
// wins ties and a zero score is never a match.
func (e *Engine) GetBestMatch(title string, candidates []CatalogProduct) MatchResult {
	best := MatchResult{MatchedTerms: []keyword.Term{}}
	if strings.TrimSpace(title) == "" || len(candidates) == 0 {
		return best
	}

	s := e.prepare(title, candidates)
	for i := range candidates {
		b := e.score(s, candidates[i])
		if b.Total > best.Score {
			best = MatchResult{
				Product:      &candidates[i],
				Score:        b.Total,
				MatchedTerms: b.MatchedTerms,
			}
		}
	}
	return best
}

// RankCandidates returns every candidate scoring above zero, best first,
// keeping input order among equal scores. limit <= 0 means no limit.
func (e *Engine) RankCandidates(title string, candidates []CatalogProduct, limit int) []MatchResult {
	if strings.TrimSpace(title) == "" || len(candidates) == 0 {
		return nil
	}

	s := e.prepare(title, candidates)
	var ranked []MatchResult
	for i := range candidates {
		b := e.score(s, candidates[i])
		if b.Total > 0 {
			ranked = append(ranked, MatchResult{Product: &candidates[i], Score: b.Total, MatchedTerms: b.MatchedTerms})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
