package services

import (
	"context"
	"errors"
	"sync"

	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/search"
)

type fakeKeywordStore struct {
	mu       sync.Mutex
	rows     map[string]*models.ProductKeywords
	panicSKU string
	failSKU  string
	upserts  int
}

func newFakeKeywordStore() *fakeKeywordStore {
	return &fakeKeywordStore{rows: make(map[string]*models.ProductKeywords)}
}

func (s *fakeKeywordStore) Upsert(ctx context.Context, kw *models.ProductKeywords) error {
	if !kw.Fallback && kw.SKU == s.panicSKU {
		panic("corrupt row")
	}
	if !kw.Fallback && kw.SKU == s.failSKU {
		return errors.New("constraint violation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[kw.SKU] = kw
	s.upserts++
	return nil
}

func (s *fakeKeywordStore) Get(ctx context.Context, sku string) (*models.ProductKeywords, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kw, ok := s.rows[sku]
	if !ok {
		return nil, models.ErrKeywordsNotFound
	}
	return kw, nil
}

func (s *fakeKeywordStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *fakeKeywordStore) Close() error { return nil }

type fakeSearcher struct {
	products []models.CatalogProduct
	err      error
	queries  []string
}

func (f *fakeSearcher) SearchCandidates(ctx context.Context, query string, limit int) ([]models.CatalogProduct, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

type fakeIndexer struct {
	built   bool
	cleared bool
	docs    []search.CatalogDocument
	batches int
}

func (f *fakeIndexer) BuildIndex() error { f.built = true; return nil }

func (f *fakeIndexer) ClearIndex() error { f.cleared = true; return nil }

func (f *fakeIndexer) IndexDocuments(docs []search.CatalogDocument) error {
	f.docs = append(f.docs, docs...)
	f.batches++
	return nil
}

var testCatalog = []models.CatalogProduct{
	{ID: "1", SKU: "COH-ROB", Title: "Cohiba Robusto", Brand: "Cohiba", SeatRow: "50", SeatNumber: "124"},
	{ID: "2", SKU: "COH-VI", Title: "Cohiba Siglo VI", Brand: "Cohiba", SeatRow: "52", SeatNumber: "150"},
	{ID: "3", SKU: "MC-ED", Title: "Montecristo Edmundo", Brand: "Montecristo", SeatRow: "52", SeatNumber: "135"},
	{ID: "4", SKU: "PUN-PUN", Title: "Punch Punch", Brand: "Punch", SeatRow: "48", SeatNumber: "143"},
	{ID: "5", SKU: "XI-CUT", Title: "Xikar Xi2 Cutter"},
}
