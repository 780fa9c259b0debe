package services

import (
	"context"

	"github.com/product-matcher/app/models"
)

// CacheStats summarizes a match cache.
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

func newCacheStats(hits, misses, items int64) *CacheStats {
	stats := &CacheStats{TotalHits: hits, TotalMiss: misses, TotalItems: items}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// ICacheService caches match outcomes by title fingerprint.
type ICacheService interface {
	Get(ctx context.Context, key string) (*models.MatchOutcome, bool, error)
	Set(ctx context.Context, key string, outcome *models.MatchOutcome) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetStats(ctx context.Context) (*CacheStats, error)
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
