package matcher

import (
	"testing"

	"github.com/product-matcher/internal/dimension"
	"github.com/product-matcher/internal/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSupplierInfo(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		extra    []string
		expected SupplierInfo
	}{
		{
			name:  "latin title",
			title: "Cohiba Robusto 50x124 Box of 25",
			expected: SupplierInfo{
				Brand:      "Cohiba",
				Vitola:     "robusto",
				Dimensions: dimension.Info{RingGauge: "50", Length: "124"},
			},
		},
		{
			name:     "chinese title",
			title:    "高希霸 罗布图 雪茄 25支",
			expected: SupplierInfo{Brand: "Cohiba", Vitola: "罗布图"},
		},
		{
			name:     "longest chinese alias wins",
			title:    "好友蒙特雷 双皇冠",
			expected: SupplierInfo{Brand: "Hoyo de Monterrey", Vitola: "皇冠"},
		},
		{
			name:     "punctuated brand",
			title:    "H. Upmann Magnum 54",
			expected: SupplierInfo{Brand: "H. Upmann", Vitola: "magnum"},
		},
		{
			name:     "accented brand",
			title:    "Partagás Lusitanias",
			expected: SupplierInfo{Brand: "Partagas"},
		},
		{
			name:     "vitola needs word boundary",
			title:    "Toronto Special",
			expected: SupplierInfo{},
		},
		{
			name:     "longer vitola first",
			title:    "Hoyo Double Corona",
			expected: SupplierInfo{Vitola: "double corona"},
		},
		{
			name:     "catalog brand fallback",
			title:    "Plasencia Alma Fuerte Robusto",
			extra:    []string{"", "Plasencia"},
			expected: SupplierInfo{Brand: "Plasencia", Vitola: "robusto"},
		},
		{
			name:     "slash dimensions",
			title:    "Trinidad Fundadores 40/192",
			expected: SupplierInfo{Brand: "Trinidad", Dimensions: dimension.Info{RingGauge: "40", Length: "192"}},
		},
		{
			name:  "empty",
			title: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractSupplierInfo(tc.title, tc.extra...))
		})
	}
}

func TestGetBestMatch_BrandOutweighsTermOverlap(t *testing.T) {
	candidates := []CatalogProduct{
		{ID: "1", SKU: "PUNCH-1", Title: "Punch Siglo Reserva Especial Limitada Cohiba", Brand: "Punch"},
		{ID: "2", SKU: "COH-VI", Title: "Cohiba Siglo VI", Brand: "Cohiba"},
	}

	result := GetBestMatch("Cohiba Siglo VI Reserva Especial Limitada", candidates)

	require.NotNil(t, result.Product)
	assert.Equal(t, "COH-VI", result.Product.SKU)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, []keyword.Term{
		{Tag: keyword.TagBrand, Text: "Cohiba"},
		{Text: "cohiba"},
		{Text: "siglo"},
	}, result.MatchedTerms)

	other := Default().ScoreCandidate("Cohiba Siglo VI Reserva Especial Limitada", candidates[0])
	assert.Equal(t, 0, other.Brand)
	assert.Equal(t, 20, other.TermOverlap)
}

func TestGetBestMatch_Dimensions(t *testing.T) {
	candidates := []CatalogProduct{
		{SKU: "MC-LONG", Title: "Montecristo Edmundo", Brand: "Montecristo", SeatRow: "50", SeatNumber: "160"},
		{SKU: "MC-ED", Title: "Montecristo Edmundo", Brand: "Montecristo", SeatRow: "52", SeatNumber: "135"},
	}

	result := GetBestMatch("Montecristo Edmundo 52x135", candidates)

	require.NotNil(t, result.Product)
	assert.Equal(t, "MC-ED", result.Product.SKU)
	assert.Equal(t, 70, result.Score)
	assert.Equal(t, []keyword.Term{
		{Tag: keyword.TagBrand, Text: "Montecristo"},
		{Tag: keyword.TagDimension, Text: "52/135"},
		{Text: "montecristo"},
		{Text: "edmundo"},
	}, result.MatchedTerms)
}

func TestGetBestMatch_DimensionTolerance(t *testing.T) {
	e := Default()
	within := CatalogProduct{Title: "x", SeatRow: "53", SeatNumber: "140"}
	outside := CatalogProduct{Title: "x", SeatRow: "55", SeatNumber: "135"}
	unparsable := CatalogProduct{Title: "x", SeatRow: "RG", SeatNumber: "135"}

	assert.Equal(t, 20, e.ScoreCandidate("Edmundo 52x135", within).Dimensions)
	assert.Equal(t, 0, e.ScoreCandidate("Edmundo 52x135", outside).Dimensions)
	assert.Equal(t, 0, e.ScoreCandidate("Edmundo 52x135", unparsable).Dimensions)
	assert.Equal(t, 0, e.ScoreCandidate("Edmundo", within).Dimensions)
}

func TestGetBestMatch_FirstCandidateWinsTies(t *testing.T) {
	candidates := []CatalogProduct{
		{SKU: "FIRST", Title: "Cohiba Robusto", Brand: "Cohiba"},
		{SKU: "SECOND", Title: "Cohiba Robusto", Brand: "Cohiba"},
	}
	result := GetBestMatch("Cohiba Robusto", candidates)
	require.NotNil(t, result.Product)
	assert.Equal(t, "FIRST", result.Product.SKU)
	assert.Same(t, &candidates[0], result.Product)
}

func TestGetBestMatch_NoMatch(t *testing.T) {
	testCases := []struct {
		name       string
		title      string
		candidates []CatalogProduct
	}{
		{name: "empty title", title: "", candidates: []CatalogProduct{{Title: "Cohiba"}}},
		{name: "blank title", title: "   ", candidates: []CatalogProduct{{Title: "Cohiba"}}},
		{name: "no candidates", title: "Cohiba Robusto"},
		{name: "zero scores", title: "Cohiba Robusto", candidates: []CatalogProduct{{Title: "Xikar Lighter"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := GetBestMatch(tc.title, tc.candidates)
			assert.Nil(t, result.Product)
			assert.Equal(t, 0, result.Score)
			assert.NotNil(t, result.MatchedTerms)
			assert.Empty(t, result.MatchedTerms)
		})
	}
}

func TestScoreCandidate_TermOverlapCapped(t *testing.T) {
	b := Default().ScoreCandidate("alpha bravo charlie delta echo foxtrot",
		CatalogProduct{Title: "Alpha Bravo Charlie Delta Echo Foxtrot"})

	assert.Equal(t, 20, b.TermOverlap)
	assert.Equal(t, 20, b.Total)
	assert.Len(t, b.MatchedTerms, 6)
}

func TestScoreCandidate_Breakdown(t *testing.T) {
	b := Default().ScoreCandidate("Cohiba Robusto 50/124",
		CatalogProduct{Title: "Cohiba Robusto", Brand: "cohiba", SeatRow: "50", SeatNumber: "124"})

	assert.Equal(t, 40, b.Brand)
	assert.Equal(t, 20, b.Vitola)
	assert.Equal(t, 20, b.Dimensions)
	assert.Equal(t, 10, b.TermOverlap)
	assert.Equal(t, 90, b.Total)
	assert.Equal(t, []string{"BRAND:Cohiba", "VITOLA:robusto", "DIM:50/124", "cohiba", "robusto"}, keyword.Strings(b.MatchedTerms))
}

func TestNewEngine_CustomWeights(t *testing.T) {
	e := NewEngine(nil, Weights{Brand: 100})
	assert.Equal(t, 100, e.Weights().Brand)
	assert.Equal(t, 20, e.Weights().Vitola)

	b := e.ScoreCandidate("Cohiba", CatalogProduct{Title: "Something", Brand: "Cohiba"})
	assert.Equal(t, 100, b.Brand)
}

func TestRankCandidates(t *testing.T) {
	candidates := []CatalogProduct{
		{SKU: "LIGHTER", Title: "Xikar Lighter"},
		{SKU: "PUNCH", Title: "Punch Robusto", Brand: "Punch"},
		{SKU: "COHIBA", Title: "Cohiba Robusto", Brand: "Cohiba"},
	}

	ranked := Default().RankCandidates("Cohiba Robusto", candidates, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "COHIBA", ranked[0].Product.SKU)
	assert.Equal(t, "PUNCH", ranked[1].Product.SKU)

	assert.Len(t, Default().RankCandidates("Cohiba Robusto", candidates, 1), 1)
	assert.Nil(t, Default().RankCandidates("", candidates, 0))
}

func TestCandidateBrands(t *testing.T) {
	candidates := []CatalogProduct{
		{Brand: "Cohiba"},
		{Brand: ""},
		{Brand: " cohiba "},
		{Brand: "Punch"},
	}
	assert.Equal(t, []string{"Cohiba", "Punch"}, CandidateBrands(candidates))
	assert.Empty(t, CandidateBrands(nil))
}
