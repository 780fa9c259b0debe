package services

import (
	"context"
	"testing"

	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAdminService(indexer ICatalogIndexer) *AdminService {
	source := NewSliceCatalogSource(testCatalog)
	ms := NewMatchService(matcher.Default(), nil, NewMemoryCacheService(10, 0), testMatchOptions(), zap.NewNop())
	ks := newTestKeywordService(source, newFakeKeywordStore(), 2)
	return NewAdminService(source, indexer, ms, ks, 2, zap.NewNop())
}

func TestAdminService_RebuildIndex(t *testing.T) {
	indexer := &fakeIndexer{}
	as := newTestAdminService(indexer)

	result, err := as.RebuildIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Documents)
	assert.True(t, indexer.built)
	assert.True(t, indexer.cleared)
	assert.Equal(t, 3, indexer.batches)
	require.Len(t, indexer.docs, 5)
	assert.Equal(t, "cohiba robusto", indexer.docs[0].Normalized)
	assert.Equal(t, "50", indexer.docs[0].SeatRow)
}

func TestAdminService_RebuildIndexDisabled(t *testing.T) {
	as := newTestAdminService(nil)

	_, err := as.RebuildIndex(context.Background())
	assert.ErrorIs(t, err, models.ErrIndexDisabled)
}

func TestAdminService_GetSystemStats(t *testing.T) {
	as := newTestAdminService(nil)

	stats := as.GetSystemStats(context.Background())
	assert.Equal(t, 5, stats.CatalogSize)
	assert.Equal(t, int64(0), stats.KeywordRows)
	assert.False(t, stats.IndexEnabled)
	require.NotNil(t, stats.Cache)
	assert.Contains(t, stats.MemoryUsage, "alloc_mb")
}
