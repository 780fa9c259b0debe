package requests

import (
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/keyword"
)

// TitleRequest carries one supplier title.
type TitleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"` // scanned by product type detection
}

// DimensionsRequest asks for the dimensions in a text, optionally converting the length.
type DimensionsRequest struct {
	Text     string `json:"text" binding:"required"`
	FromUnit string `json:"from_unit,omitempty"` // mm, cm or inch
	ToUnit   string `json:"to_unit,omitempty"`
}

// CategorizeRequest classifies raw keywords, which may carry "TAG:" prefixes.
type CategorizeRequest struct {
	Keywords []string                `json:"keywords" binding:"required,min=1,max=1000"`
	Context  *keyword.ProductContext `json:"context,omitempty"`
}

// MatchRequest matches one title. Without candidates the catalog index is searched.
type MatchRequest struct {
	Title      string                  `json:"title" binding:"required"`
	Candidates []models.CatalogProduct `json:"candidates,omitempty"`
}

// MatchBatchRequest matches many titles against the same candidates.
type MatchBatchRequest struct {
	Titles     []string                `json:"titles" binding:"required,min=1,max=1000"`
	Candidates []models.CatalogProduct `json:"candidates,omitempty"`
}
