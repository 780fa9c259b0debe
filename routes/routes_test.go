package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/controllers"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/responses"
	"github.com/product-matcher/app/services"
	"github.com/product-matcher/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryKeywordStore struct {
	mu   sync.Mutex
	rows map[string]*models.ProductKeywords
}

func (s *memoryKeywordStore) Upsert(ctx context.Context, kw *models.ProductKeywords) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[kw.SKU] = kw
	return nil
}

func (s *memoryKeywordStore) Get(ctx context.Context, sku string) (*models.ProductKeywords, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kw, ok := s.rows[sku]; ok {
		return kw, nil
	}
	return nil, models.ErrKeywordsNotFound
}

func (s *memoryKeywordStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *memoryKeywordStore) Close() error { return nil }

var catalog = []models.CatalogProduct{
	{ID: "1", SKU: "COH-ROB", Title: "Cohiba Robusto", Brand: "Cohiba", SeatRow: "50", SeatNumber: "124"},
	{ID: "2", SKU: "MC-ED", Title: "Montecristo Edmundo", Brand: "Montecristo", SeatRow: "52", SeatNumber: "135"},
}

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	engine := matcher.Default()
	source := services.NewSliceCatalogSource(catalog)
	store := &memoryKeywordStore{rows: make(map[string]*models.ProductKeywords)}

	matchService := services.NewMatchService(engine, nil, services.NewMemoryCacheService(100, time.Minute),
		services.MatchOptions{AlternativeLimit: 2, SuggestionLimit: 3, SuggestionThreshold: 0.75}, logger)
	keywordService := services.NewKeywordService(engine, source, store, 10, logger)
	adminService := services.NewAdminService(source, nil, matchService, keywordService, 10, logger)

	router := gin.New()
	SetupAllRoutes(router, Controllers{
		Title:   controllers.NewTitleController(engine),
		Match:   controllers.NewMatchController(matchService, logger),
		Keyword: controllers.NewKeywordController(keywordService, logger),
		Admin:   controllers.NewAdminController(adminService, matchService, logger),
	}, opts)
	return router
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTitleRoutes(t *testing.T) {
	router := newTestRouter(t, Options{})

	t.Run("normalize", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/titles/normalize", gin.H{"title": "Cohiba Robusto Cigars!"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp responses.NormalizeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "cohiba robusto", resp.Normalized)
	})

	t.Run("dimensions with conversion", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/titles/dimensions",
			gin.H{"text": "Edmundo 52x135", "from_unit": "mm", "to_unit": "cm"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp responses.DimensionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "52/135", resp.Formatted)
		require.NotNil(t, resp.ConvertedLength)
		assert.InDelta(t, 13.5, *resp.ConvertedLength, 1e-9)
		assert.Equal(t, "cm", resp.Unit)
	})

	t.Run("analyze", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/titles/analyze", gin.H{"title": "Cohiba Robusto Box of 25"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp responses.AnalyzeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Cohiba", resp.SupplierInfo.Brand)
		assert.Equal(t, matcher.ProductTypeCigar, resp.ProductType)
		assert.Equal(t, 25, resp.Packaging.Count)
	})

	t.Run("categorize", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/keywords/categorize",
			gin.H{"keywords": []string{"BRAND:Cohiba", "52x135", "2019"}})
		require.Equal(t, http.StatusOK, w.Code)

		var resp responses.CategorizeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Keywords, 3)
		assert.EqualValues(t, "brand", resp.Keywords[0].Category)
		assert.EqualValues(t, "dimensions", resp.Keywords[1].Category)
		assert.EqualValues(t, "year", resp.Keywords[2].Category)
	})

	t.Run("missing title", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/titles/terms", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}

func TestMatchRoutes(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := doJSON(router, http.MethodPost, "/v1/match", gin.H{"title": "Montecristo Edmundo 52x135", "candidates": catalog})
	require.Equal(t, http.StatusOK, w.Code)

	var resp responses.MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Result.Matched)
	assert.Equal(t, "MC-ED", resp.Result.Product.SKU)
	assert.Equal(t, 70, resp.Result.Score)

	w = doJSON(router, http.MethodPost, "/v1/match/batch", gin.H{
		"titles":     []string{"Cohiba Robusto", "Xikar Lighter", " "},
		"candidates": catalog,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var batch responses.MatchBatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 1, batch.Matched)
	assert.Len(t, batch.Results, 3)
}

func TestKeywordRoutes(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := doJSON(router, http.MethodPost, "/v1/keywords/jobs", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var job models.KeywordJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	require.NotEmpty(t, job.JobID)

	require.Eventually(t, func() bool {
		w := doJSON(router, http.MethodGet, "/v1/keywords/jobs/"+job.JobID, nil)
		var status models.KeywordJob
		_ = json.Unmarshal(w.Body.Bytes(), &status)
		return w.Code == http.StatusOK && status.Status == models.JobStatusDone
	}, 2*time.Second, 10*time.Millisecond)

	w = doJSON(router, http.MethodGet, "/v1/keywords/COH-ROB", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var kw models.ProductKeywords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &kw))
	assert.Contains(t, kw.Keywords, "BRAND:Cohiba")

	w = doJSON(router, http.MethodGet, "/v1/keywords/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/v1/keywords/jobs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := doJSON(router, http.MethodPost, "/v1/admin/index/rebuild", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/admin/cache/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/v1/admin/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"catalog_size":2`)

	w = doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = doJSON(router, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")
}

func TestMiddleware(t *testing.T) {
	t.Run("cors preflight", func(t *testing.T) {
		router := newTestRouter(t, Options{AllowedOrigins: []string{"https://shop.example.com"}})

		req := httptest.NewRequest(http.MethodOptions, "/v1/match", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin gets no cors headers", func(t *testing.T) {
		router := newTestRouter(t, Options{AllowedOrigins: []string{"https://shop.example.com"}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rate limit per client", func(t *testing.T) {
		router := newTestRouter(t, Options{RatePerSecond: 0.001, RateBurst: 1})

		first := doJSON(router, http.MethodGet, "/health", nil)
		second := doJSON(router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Contains(t, second.Body.String(), "RATE_LIMITED")
	})
}
