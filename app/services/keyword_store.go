package services

import (
	"context"

	"github.com/product-matcher/app/models"
)

// IKeywordStore persists the keyword row of each catalog sku.
type IKeywordStore interface {
	// Upsert writes the row for kw.SKU, replacing any previous row.
	Upsert(ctx context.Context, kw *models.ProductKeywords) error

	// Get returns models.ErrKeywordsNotFound when sku has no row.
	Get(ctx context.Context, sku string) (*models.ProductKeywords, error)

	Count(ctx context.Context) (int64, error)

	Close() error
}
