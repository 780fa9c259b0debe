package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when nothing is set", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, "sqlite", cfg.KeywordStore.Type)
		assert.Equal(t, "postgres", cfg.Catalog.Source)
		assert.Equal(t, 500, cfg.Batch.PageSize)
		assert.Equal(t, 40, cfg.Matcher.Weights.Brand)
		assert.Equal(t, 20, cfg.Matcher.Weights.TermOverlapCap)
		assert.Equal(t, 10.0, cfg.Matcher.Weights.LengthTolerance)
		assert.False(t, cfg.Meilisearch.Enabled)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("MATCHER_SERVER_PORT", "9090")
		t.Setenv("MATCHER_SERVER_ENVIRONMENT", "production")
		t.Setenv("MATCHER_CACHE_TYPE", "redis")
		t.Setenv("MATCHER_CACHE_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("MATCHER_CACHE_TTL", "1h")
		t.Setenv("MATCHER_MATCHER_WEIGHTS_BRAND", "60")
		t.Setenv("MATCHER_KEYWORD_STORE_TYPE", "mongo")
		t.Setenv("MATCHER_KEYWORD_STORE_DSN", "mongodb://localhost:27017")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "redis", cfg.Cache.Type)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 60, cfg.Matcher.Weights.Brand)
		assert.Equal(t, "mongo", cfg.KeywordStore.Type)
	})

	t.Run("reads an explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "matcher.yaml")
		content := `
catalog:
  source: excel
  excel_path: /data/catalog.xlsx
matcher:
  candidate_limit: 10
  weights:
    vitola: 25
batch:
  page_size: 50
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "excel", cfg.Catalog.Source)
		assert.Equal(t, "/data/catalog.xlsx", cfg.Catalog.ExcelPath)
		assert.Equal(t, 10, cfg.Matcher.CandidateLimit)
		assert.Equal(t, 25, cfg.Matcher.Weights.Vitola)
		assert.Equal(t, 40, cfg.Matcher.Weights.Brand)
		assert.Equal(t, 50, cfg.Batch.PageSize)
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown cache type", env: map[string]string{"MATCHER_CACHE_TYPE": "memcached"}},
		{name: "redis without url", env: map[string]string{"MATCHER_CACHE_TYPE": "hybrid"}},
		{name: "unknown keyword store", env: map[string]string{"MATCHER_KEYWORD_STORE_TYPE": "dynamo"}},
		{name: "excel without path", env: map[string]string{"MATCHER_CATALOG_SOURCE": "excel"}},
		{name: "unknown catalog source", env: map[string]string{"MATCHER_CATALOG_SOURCE": "csv"}},
		{name: "zero page size", env: map[string]string{"MATCHER_BATCH_PAGE_SIZE": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
