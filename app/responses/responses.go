package responses

import (
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/dimension"
	"github.com/product-matcher/internal/matcher"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type NormalizeResponse struct {
	Title      string `json:"title"`
	Normalized string `json:"normalized"`
	Filtered   string `json:"filtered"`
}

type TermsResponse struct {
	Title       string   `json:"title"`
	Terms       []string `json:"terms"`
	HasChinese  bool     `json:"has_chinese"`
	ChineseRuns []string `json:"chinese_runs,omitempty"`
}

type DimensionsResponse struct {
	Text       string         `json:"text"`
	Dimensions dimension.Info `json:"dimensions"`
	Formatted  string         `json:"formatted,omitempty"`
	// Length converted to ToUnit, present when both units were given and the length parsed.
	ConvertedLength *float64 `json:"converted_length,omitempty"`
	Unit            string   `json:"unit,omitempty"`
}

type AnalyzeResponse struct {
	Title        string                `json:"title"`
	Normalized   string                `json:"normalized"`
	Terms        []string              `json:"terms"`
	SupplierInfo matcher.SupplierInfo  `json:"supplier_info"`
	ProductType  matcher.ProductType   `json:"product_type"`
	Packaging    matcher.PackagingInfo `json:"packaging"`
}

type CategorizeResponse struct {
	Keywords []models.CategorizedTerm `json:"keywords"`
}

type MatchResponse struct {
	Result           *models.MatchOutcome `json:"result"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

type MatchBatchResponse struct {
	Results          []*models.MatchOutcome `json:"results"`
	Total            int                    `json:"total"`
	Matched          int                    `json:"matched"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
