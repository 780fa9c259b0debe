package models

import "github.com/product-matcher/internal/matcher"

// CatalogProduct is the catalog record shared by sources, the search index and the engine.
type CatalogProduct = matcher.CatalogProduct
