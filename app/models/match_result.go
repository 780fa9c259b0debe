package models

import (
	"time"

	"github.com/product-matcher/internal/keyword"
	"github.com/product-matcher/internal/matcher"
	"github.com/product-matcher/internal/similarity"
)

// CategorizedTerm is a keyword with the category the categorizer assigned to it.
type CategorizedTerm struct {
	Term     string           `json:"term" bson:"term"`
	Category keyword.Category `json:"category" bson:"category"`
}

// Suggestion is a catalog title that resembles an unmatched supplier title.
type Suggestion struct {
	SKU   string  `json:"sku"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// MatchOutcome is the full answer for one supplier title.
type MatchOutcome struct {
	Title        string                `json:"title"`
	Fingerprint  string                `json:"fingerprint"`
	Normalized   string                `json:"normalized"`
	Terms        []string              `json:"terms"`
	SupplierInfo matcher.SupplierInfo  `json:"supplier_info"`
	ProductType  matcher.ProductType   `json:"product_type"`
	Packaging    matcher.PackagingInfo `json:"packaging"`
	Matched      bool                  `json:"matched"`
	Product      *CatalogProduct       `json:"product"`
	Score        int                   `json:"score"`
	MatchedTerms []CategorizedTerm     `json:"matched_terms"`
	Alternatives []matcher.MatchResult `json:"alternatives,omitempty"`
	Suggestions  []Suggestion          `json:"suggestions,omitempty"`
	Similar      []similarity.Match    `json:"similar_terms,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}
