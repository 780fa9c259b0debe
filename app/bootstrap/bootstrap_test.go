package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/product-matcher/app/config"
	"github.com/product-matcher/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"sku", "title", "brand", "ring_gauge", "length"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"COH-ROB", "Cohiba Robusto", "Cohiba", "50", "124"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"PUN-PUN", "Punch Punch", "Punch", "48", "143"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestNew_LocalBackends(t *testing.T) {
	t.Setenv("MATCHER_CATALOG_SOURCE", "excel")
	t.Setenv("MATCHER_CATALOG_EXCEL_PATH", writeCatalog(t))
	t.Setenv("MATCHER_KEYWORD_STORE_DSN", filepath.Join(t.TempDir(), "keywords.db"))

	cfg, err := config.Load("")
	require.NoError(t, err)

	ctx := context.Background()
	app, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Searcher)

	stats, err := app.KeywordService.RunBatch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)

	kw, err := app.KeywordService.GetKeywords(ctx, "COH-ROB")
	require.NoError(t, err)
	assert.Contains(t, kw.Keywords, "DIM:50/124")

	products, err := app.Catalog.ListProducts(ctx, 0, 10)
	require.NoError(t, err)
	outcome, err := app.MatchService.MatchTitle(ctx, "Cohiba Robusto 50x124", products)
	require.NoError(t, err)
	assert.True(t, outcome.Matched)
	assert.Equal(t, "COH-ROB", outcome.Product.SKU)
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(config.MatcherConfig{Weights: matcher.Weights{Brand: 55}})
	require.NoError(t, err)
	assert.Equal(t, 55, e.Weights().Brand)

	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brands:\n  - name: Plasencia\n"), 0o644))

	e, err = NewEngine(config.MatcherConfig{VocabularyPath: path})
	require.NoError(t, err)
	assert.Equal(t, "Plasencia", e.ExtractSupplierInfo("Plasencia Alma Fuerte").Brand)

	_, err = NewEngine(config.MatcherConfig{VocabularyPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestNew_BadCatalog(t *testing.T) {
	t.Setenv("MATCHER_CATALOG_SOURCE", "excel")
	t.Setenv("MATCHER_CATALOG_EXCEL_PATH", filepath.Join(t.TempDir(), "missing.xlsx"))

	cfg, err := config.Load("")
	require.NoError(t, err)

	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
