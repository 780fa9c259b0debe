// Package bootstrap builds the services shared by the api and worker binaries from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/product-matcher/app/config"
	"github.com/product-matcher/app/services"
	"github.com/product-matcher/internal/matcher"
	"github.com/product-matcher/internal/normalizer"
	"github.com/product-matcher/internal/rules"
	"github.com/product-matcher/internal/search"
	"go.uber.org/zap"
)

// App holds the wired services. Searcher is nil when Meilisearch is disabled.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Engine   *matcher.Engine
	Catalog  services.ICatalogSource
	Keywords services.IKeywordStore
	Cache    services.ICacheService
	Searcher *search.CatalogSearcher

	MatchService   *services.MatchService
	KeywordService *services.KeywordService
	AdminService   *services.AdminService

	closers []func() error
}

// New connects every configured backend. On error the backends opened so far are closed.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (app *App, err error) {
	app = &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	if app.Engine, err = NewEngine(cfg.Matcher); err != nil {
		return app, err
	}

	if app.Catalog, err = newCatalogSource(ctx, cfg.Catalog, logger); err != nil {
		return app, err
	}
	app.closers = append(app.closers, app.Catalog.Close)

	if app.Keywords, err = newKeywordStore(ctx, cfg.KeywordStore, logger); err != nil {
		return app, err
	}
	app.closers = append(app.closers, app.Keywords.Close)

	if app.Cache, err = newCache(cfg.Cache, logger); err != nil {
		return app, err
	}
	app.closers = append(app.closers, app.Cache.Close)

	var (
		candidateSearcher services.ICandidateSearcher
		indexer           services.ICatalogIndexer
	)
	if cfg.Meilisearch.Enabled {
		app.Searcher, err = search.NewCatalogSearcher(search.SearchConfig{
			Host:          cfg.Meilisearch.Host,
			APIKey:        cfg.Meilisearch.APIKey,
			IndexName:     cfg.Meilisearch.Index,
			Timeout:       cfg.Meilisearch.Timeout,
			MaxCandidates: cfg.Matcher.CandidateLimit,
		}, logger)
		if err != nil {
			return app, err
		}
		candidateSearcher = app.Searcher
		indexer = app.Searcher
	}

	app.MatchService = services.NewMatchService(app.Engine, candidateSearcher, app.Cache, services.MatchOptions{
		CandidateLimit:      cfg.Matcher.CandidateLimit,
		AlternativeLimit:    cfg.Matcher.AlternativeLimit,
		SuggestionLimit:     cfg.Matcher.SuggestionLimit,
		SuggestionThreshold: cfg.Matcher.SuggestionThreshold,
		SimilarityThreshold: cfg.Matcher.SimilarityThreshold,
	}, logger)
	app.KeywordService = services.NewKeywordService(app.Engine, app.Catalog, app.Keywords, cfg.Batch.PageSize, logger)
	app.AdminService = services.NewAdminService(app.Catalog, indexer, app.MatchService, app.KeywordService, cfg.Batch.PageSize, logger)

	return app, nil
}

// NewEngine builds the match engine over the configured vocabulary and weights.
func NewEngine(cfg config.MatcherConfig) (*matcher.Engine, error) {
	vocab := rules.Default()
	if cfg.VocabularyPath != "" {
		v, err := rules.LoadFile(cfg.VocabularyPath)
		if err != nil {
			return nil, err
		}
		vocab = v
	}
	return matcher.NewEngine(normalizer.NewTitleNormalizer(vocab), cfg.Weights), nil
}

func newCatalogSource(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (services.ICatalogSource, error) {
	switch cfg.Source {
	case "postgres":
		return services.OpenPostgresCatalogSource(ctx, cfg.DSN, cfg.Table, logger)
	case "excel":
		return services.OpenExcelCatalogSource(cfg.ExcelPath, cfg.Sheet)
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", cfg.Source)
	}
}

func newKeywordStore(ctx context.Context, cfg config.KeywordStoreConfig, logger *zap.Logger) (services.IKeywordStore, error) {
	switch cfg.Type {
	case "mongo":
		client, err := services.ConnectMongo(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		store, err := services.NewMongoKeywordStore(client, cfg.Database, cfg.Table, cfg.L1Size, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil
	case services.DialectPostgres, services.DialectSQLite:
		return services.OpenSQLKeywordStore(ctx, cfg.Type, cfg.DSN, cfg.Table, logger)
	default:
		return nil, fmt.Errorf("unknown keyword store type: %s", cfg.Type)
	}
}

func newCache(cfg config.CacheConfig, logger *zap.Logger) (services.ICacheService, error) {
	switch cfg.Type {
	case "memory":
		return services.NewMemoryCacheService(cfg.L1Size, cfg.TTL), nil
	case "redis":
		return services.NewRedisCacheService(cfg.RedisURL, cfg.Prefix, cfg.TTL, logger)
	case "hybrid":
		remote, err := services.NewRedisCacheService(cfg.RedisURL, cfg.Prefix, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		return services.NewHybridCacheService(services.NewMemoryCacheService(cfg.L1Size, cfg.TTL), remote, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}

// Close releases every backend in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
