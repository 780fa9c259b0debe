// Package search wraps the Meilisearch catalog index used to preselect match candidates.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/product-matcher/internal/matcher"
	"go.uber.org/zap"
)

// SearchConfig configures the Meilisearch connection.
type SearchConfig struct {
	Host          string
	APIKey        string
	IndexName     string
	Timeout       time.Duration
	MaxCandidates int
}

// CatalogDocument is the indexed form of a catalog product.
type CatalogDocument struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	Title      string `json:"title"`
	Normalized string `json:"normalized_title"`
	Brand      string `json:"brand,omitempty"`
	SeatRow    string `json:"seat_row,omitempty"`
	SeatNumber string `json:"seat_number,omitempty"`
}

// Product converts the document back to a catalog record.
func (d CatalogDocument) Product() matcher.CatalogProduct {
	return matcher.CatalogProduct{
		ID:         d.ID,
		SKU:        d.SKU,
		Title:      d.Title,
		Brand:      d.Brand,
		SeatRow:    d.SeatRow,
		SeatNumber: d.SeatNumber,
	}
}

// CatalogSearcher searches and maintains the catalog index.
type CatalogSearcher struct {
	client        meilisearch.ServiceManager
	logger        *zap.Logger
	indexName     string
	timeout       time.Duration
	maxCandidates int
}

// NewCatalogSearcher connects to Meilisearch and checks its health.
func NewCatalogSearcher(config SearchConfig, logger *zap.Logger) (*CatalogSearcher, error) {
	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("cannot reach meilisearch at %s: %w", config.Host, err)
	}

	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 50
	}
	return &CatalogSearcher{
		client:        client,
		logger:        logger,
		indexName:     config.IndexName,
		timeout:       config.Timeout,
		maxCandidates: maxCandidates,
	}, nil
}

// SearchCandidates returns catalog products resembling query, best first.
func (cs *CatalogSearcher) SearchCandidates(ctx context.Context, query string, limit int) ([]matcher.CatalogProduct, error) {
	if limit <= 0 || limit > cs.maxCandidates {
		limit = cs.maxCandidates
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := cs.client.Index(cs.indexName).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search catalog index: %w", err)
	}

	docs, err := decodeHits(res.Hits)
	if err != nil {
		return nil, err
	}
	products := make([]matcher.CatalogProduct, len(docs))
	for i, d := range docs {
		products[i] = d.Product()
	}

	cs.logger.Debug("Catalog search",
		zap.String("query", query),
		zap.Int("hits", len(products)))
	return products, nil
}

// decodeHits round-trips the raw hits through JSON so the decoding does not
// depend on the client's hit representation.
func decodeHits(hits interface{}) ([]CatalogDocument, error) {
	b, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("encode hits: %w", err)
	}
	var docs []CatalogDocument
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	return docs, nil
}

// BuildIndex applies the index settings used for title search.
func (cs *CatalogSearcher) BuildIndex() error {
	index := cs.client.Index(cs.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"title", "normalized_title", "brand", "sku"},
		FilterableAttributes: []string{"brand", "sku"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "exactness"},
		StopWords:            []string{"the", "and", "for", "with"},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("configure catalog index: %w", err)
	}

	cs.logger.Info("Configured catalog index", zap.String("index", cs.indexName), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// IndexDocuments adds or replaces documents in batches of 1000.
func (cs *CatalogSearcher) IndexDocuments(docs []CatalogDocument) error {
	if len(docs) == 0 {
		return errors.New("no documents to index")
	}

	index := cs.client.Index(cs.indexName)
	const batchSize = 1000
	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		task, err := index.AddDocuments(docs[i:end], "id")
		if err != nil {
			return fmt.Errorf("add documents %d-%d: %w", i, end, err)
		}
		cs.logger.Info("Indexed catalog batch",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}
	return nil
}

// ClearIndex removes every document from the catalog index.
func (cs *CatalogSearcher) ClearIndex() error {
	task, err := cs.client.Index(cs.indexName).DeleteAllDocuments()
	if err != nil {
		return fmt.Errorf("clear catalog index: %w", err)
	}
	cs.logger.Info("Cleared catalog index", zap.Int64("task_uid", task.TaskUID))
	return nil
}
