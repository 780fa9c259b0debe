package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/normalizer"
	"github.com/product-matcher/internal/search"
	"go.uber.org/zap"
)

// ICatalogIndexer maintains the search index used for candidate retrieval.
type ICatalogIndexer interface {
	BuildIndex() error
	ClearIndex() error
	IndexDocuments(docs []search.CatalogDocument) error
}

// IndexResult summarizes a catalog index rebuild.
type IndexResult struct {
	Documents        int   `json:"documents"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// SystemStats is the admin view of the running service.
type SystemStats struct {
	Uptime        string                 `json:"uptime"`
	MemoryUsage   map[string]interface{} `json:"memory_usage"`
	Cache         *CacheStats            `json:"cache,omitempty"`
	CatalogSize   int                    `json:"catalog_size"`
	KeywordRows   int64                  `json:"keyword_rows"`
	IndexEnabled  bool                   `json:"index_enabled"`
	NumGoroutines int                    `json:"num_goroutines"`
}

// AdminService handles catalog indexing and service statistics.
type AdminService struct {
	source     ICatalogSource
	indexer    ICatalogIndexer
	matches    *MatchService
	keywords   *KeywordService
	normalizer *normalizer.TitleNormalizer
	pageSize   int
	logger     *zap.Logger
	startTime  time.Time
}

// NewAdminService wires the admin operations. indexer is nil when search is disabled.
func NewAdminService(source ICatalogSource, indexer ICatalogIndexer, matches *MatchService, keywords *KeywordService, pageSize int, logger *zap.Logger) *AdminService {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &AdminService{
		source:     source,
		indexer:    indexer,
		matches:    matches,
		keywords:   keywords,
		normalizer: matches.Engine().Normalizer(),
		pageSize:   pageSize,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// RebuildIndex replaces the index contents with the current catalog.
func (as *AdminService) RebuildIndex(ctx context.Context) (*IndexResult, error) {
	if as.indexer == nil {
		return nil, models.ErrIndexDisabled
	}
	start := time.Now()

	if err := as.indexer.BuildIndex(); err != nil {
		return nil, err
	}
	if err := as.indexer.ClearIndex(); err != nil {
		return nil, err
	}

	result := &IndexResult{}
	for offset := 0; ; offset += as.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		products, err := as.source.ListProducts(ctx, offset, as.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list catalog at offset %d: %w", offset, err)
		}
		if len(products) == 0 {
			break
		}

		docs := make([]search.CatalogDocument, len(products))
		for i, p := range products {
			docs[i] = search.CatalogDocument{
				ID:         p.ID,
				SKU:        p.SKU,
				Title:      p.Title,
				Normalized: as.normalizer.NormalizeTitle(p.Title),
				Brand:      p.Brand,
				SeatRow:    p.SeatRow,
				SeatNumber: p.SeatNumber,
			}
		}
		if err := as.indexer.IndexDocuments(docs); err != nil {
			return nil, err
		}
		result.Documents += len(docs)

		if len(products) < as.pageSize {
			break
		}
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	as.logger.Info("Catalog index rebuilt",
		zap.Int("documents", result.Documents),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))
	return result, nil
}

// GetSystemStats collects runtime and storage statistics. Storage errors are
// logged and leave the corresponding field empty.
func (as *AdminService) GetSystemStats(ctx context.Context) *SystemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		Uptime: time.Since(as.startTime).Round(time.Second).String(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
		IndexEnabled:  as.indexer != nil,
		NumGoroutines: runtime.NumGoroutine(),
	}

	if cacheStats, err := as.matches.CacheStats(ctx); err != nil {
		as.logger.Warn("Cannot read cache stats", zap.Error(err))
	} else {
		stats.Cache = cacheStats
	}
	if n, err := as.source.Count(ctx); err != nil {
		as.logger.Warn("Cannot count catalog", zap.Error(err))
	} else {
		stats.CatalogSize = n
	}
	if n, err := as.keywords.CountKeywords(ctx); err != nil {
		as.logger.Warn("Cannot count keyword rows", zap.Error(err))
	} else {
		stats.KeywordRows = n
	}
	return stats
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
