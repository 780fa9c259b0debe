package models

import (
	"time"

	"github.com/product-matcher/internal/matcher"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductKeywords is the keyword row stored per catalog sku.
type ProductKeywords struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"-"`
	SKU         string                `bson:"sku" json:"sku"`
	ProductID   string                `bson:"product_id" json:"product_id"`
	Title       string                `bson:"title" json:"title"`
	ProductType matcher.ProductType   `bson:"product_type" json:"product_type"`
	Keywords    []string              `bson:"keywords" json:"keywords"` // "TAG:value" strings
	Categorized []CategorizedTerm     `bson:"categorized" json:"categorized"`
	Packaging   matcher.PackagingInfo `bson:"packaging" json:"packaging"`
	Fallback    bool                  `bson:"fallback" json:"fallback"`
	CreatedAt   time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time             `bson:"updated_at" json:"updated_at"`
}

// FallbackKeywords is the deterministic row written when building keywords for a product failed.
func FallbackKeywords(p CatalogProduct) *ProductKeywords {
	now := time.Now()
	return &ProductKeywords{
		SKU:         p.SKU,
		ProductID:   p.ID,
		Title:       p.Title,
		ProductType: matcher.ProductTypeCigar,
		Keywords:    []string{p.Title},
		Categorized: []CategorizedTerm{{Term: p.Title, Category: "generic"}},
		Fallback:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
