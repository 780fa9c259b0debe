package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/product-matcher/app/models"
)

// MemoryCacheService is an in-process LRU cache with a fixed TTL.
type MemoryCacheService struct {
	cache  *expirable.LRU[string, *models.MatchOutcome]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCacheService creates a cache holding at most size outcomes for ttl each.
// A ttl of zero keeps entries until they are evicted.
func NewMemoryCacheService(size int, ttl time.Duration) *MemoryCacheService {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCacheService{
		cache: expirable.NewLRU[string, *models.MatchOutcome](size, nil, ttl),
	}
}

func (mcs *MemoryCacheService) Get(ctx context.Context, key string) (*models.MatchOutcome, bool, error) {
	outcome, ok := mcs.cache.Get(key)
	if !ok {
		mcs.misses.Add(1)
		return nil, false, nil
	}
	mcs.hits.Add(1)
	return outcome, true, nil
}

func (mcs *MemoryCacheService) Set(ctx context.Context, key string, outcome *models.MatchOutcome) error {
	mcs.cache.Add(key, outcome)
	return nil
}

func (mcs *MemoryCacheService) Delete(ctx context.Context, key string) error {
	mcs.cache.Remove(key)
	return nil
}

func (mcs *MemoryCacheService) Clear(ctx context.Context) error {
	mcs.cache.Purge()
	mcs.hits.Store(0)
	mcs.misses.Store(0)
	return nil
}

func (mcs *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	return newCacheStats(mcs.hits.Load(), mcs.misses.Load(), int64(mcs.cache.Len())), nil
}

func (mcs *MemoryCacheService) Exists(ctx context.Context, key string) (bool, error) {
	return mcs.cache.Contains(key), nil
}

func (mcs *MemoryCacheService) Close() error {
	return nil
}
