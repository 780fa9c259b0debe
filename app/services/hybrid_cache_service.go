package services

import (
	"context"
	"fmt"
	"time"

	"github.com/product-matcher/app/models"
	"go.uber.org/zap"
)

// HybridCacheService keeps hot outcomes in process (L1) in front of a shared Redis cache (L2).
type HybridCacheService struct {
	local  ICacheService
	remote ICacheService
	logger *zap.Logger
}

func NewHybridCacheService(local, remote ICacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// Get reads L1 first, then L2. An L2 hit is copied back to L1 in the background.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.MatchOutcome, bool, error) {
	outcome, found, err := hcs.local.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("L1 cache error, falling back to L2", zap.Error(err))
	} else if found {
		hcs.logger.Debug("L1 cache hit", zap.String("key", key))
		return outcome, true, nil
	}

	outcome, found, err = hcs.remote.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hcs.local.Set(bgCtx, key, outcome); err != nil {
			hcs.logger.Warn("L2 to L1 sync failed", zap.Error(err), zap.String("key", key))
		}
	}()

	hcs.logger.Debug("L2 cache hit", zap.String("key", key))
	return outcome, true, nil
}

func (hcs *HybridCacheService) Set(ctx context.Context, key string, outcome *models.MatchOutcome) error {
	return both(func(c ICacheService) error { return c.Set(ctx, key, outcome) }, hcs.local, hcs.remote, "set")
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return both(func(c ICacheService) error { return c.Delete(ctx, key) }, hcs.local, hcs.remote, "delete")
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := both(func(c ICacheService) error { return c.Clear(ctx) }, hcs.local, hcs.remote, "clear"); err != nil {
		return err
	}
	hcs.logger.Info("Cleared hybrid cache")
	return nil
}

// GetStats combines both layers. It fails only when both layers fail.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	localStats, localErr := hcs.local.GetStats(ctx)
	remoteStats, remoteErr := hcs.remote.GetStats(ctx)

	switch {
	case localErr != nil && remoteErr != nil:
		return nil, fmt.Errorf("both cache layers failed: %v, %v", localErr, remoteErr)
	case localErr != nil:
		return remoteStats, nil
	case remoteErr != nil:
		return localStats, nil
	}

	// Every L1 miss is an L2 lookup, so only L2 misses are real misses.
	return newCacheStats(
		localStats.TotalHits+remoteStats.TotalHits,
		remoteStats.TotalMiss,
		remoteStats.TotalItems,
	), nil
}

func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.local.Exists(ctx, key)
	if err != nil {
		hcs.logger.Warn("L1 exists check failed, falling back to L2", zap.Error(err))
	} else if exists {
		return true, nil
	}
	return hcs.remote.Exists(ctx, key)
}

func (hcs *HybridCacheService) Close() error {
	return both(func(c ICacheService) error { return c.Close() }, hcs.local, hcs.remote, "close")
}

// both runs fn on the two layers concurrently and joins their errors.
func both(fn func(ICacheService) error, local, remote ICacheService, op string) error {
	errCh := make(chan error, 2)
	go func() { errCh <- fn(local) }()
	go func() { errCh <- fn(remote) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cache %s errors: %v", op, errs)
	}
	return nil
}
