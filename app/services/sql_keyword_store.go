package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/internal/matcher"
	"go.uber.org/zap"
)

// SQL dialects supported by SQLKeywordStore.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLKeywordStore keeps keyword rows in PostgreSQL or SQLite. List columns are JSON text.
type SQLKeywordStore struct {
	db      *sql.DB
	dialect string
	table   string
	logger  *zap.Logger
}

// OpenSQLKeywordStore opens dsn with the driver for dialect and creates table if needed.
func OpenSQLKeywordStore(ctx context.Context, dialect, dsn, table string, logger *zap.Logger) (*SQLKeywordStore, error) {
	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite3"
		if !strings.Contains(dsn, "?") {
			dsn += "?_timeout=5000&_journal_mode=WAL"
		}
	default:
		return nil, fmt.Errorf("unsupported keyword store dialect: %s", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s keyword store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(10 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s keyword store: %w", dialect, err)
	}

	s := &SQLKeywordStore{db: db, dialect: dialect, table: table, logger: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Keyword store ready", zap.String("dialect", dialect), zap.String("table", table))
	return s, nil
}

func (s *SQLKeywordStore) quotedTable() string {
	return pq.QuoteIdentifier(s.table)
}

// bind rewrites ? placeholders to $n for postgres.
func (s *SQLKeywordStore) bind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLKeywordStore) migrate(ctx context.Context) error {
	tsType := "TIMESTAMP"
	if s.dialect == DialectSQLite {
		tsType = "DATETIME"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	sku TEXT PRIMARY KEY,
	product_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	product_type TEXT NOT NULL,
	keywords TEXT NOT NULL,
	categorized TEXT NOT NULL,
	packaging TEXT NOT NULL,
	fallback BOOLEAN NOT NULL DEFAULT FALSE,
	created_at %s NOT NULL,
	updated_at %s NOT NULL
)`, s.quotedTable(), tsType, tsType)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create keyword table: %w", err)
	}
	return nil
}

func (s *SQLKeywordStore) Upsert(ctx context.Context, kw *models.ProductKeywords) error {
	keywords, err := json.Marshal(kw.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	categorized, err := json.Marshal(kw.Categorized)
	if err != nil {
		return fmt.Errorf("encode categorized keywords: %w", err)
	}
	packaging, err := json.Marshal(kw.Packaging)
	if err != nil {
		return fmt.Errorf("encode packaging: %w", err)
	}

	query := s.bind(fmt.Sprintf(`INSERT INTO %s
	(sku, product_id, title, product_type, keywords, categorized, packaging, fallback, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (sku) DO UPDATE SET
	product_id = excluded.product_id,
	title = excluded.title,
	product_type = excluded.product_type,
	keywords = excluded.keywords,
	categorized = excluded.categorized,
	packaging = excluded.packaging,
	fallback = excluded.fallback,
	updated_at = excluded.updated_at`, s.quotedTable()))

	_, err = s.db.ExecContext(ctx, query,
		kw.SKU, kw.ProductID, kw.Title, string(kw.ProductType),
		string(keywords), string(categorized), string(packaging), kw.Fallback,
		kw.CreatedAt.UTC(), kw.UpdatedAt.UTC())
	if err != nil {
		s.logger.Error("Keyword upsert failed", zap.String("sku", kw.SKU), zap.Error(err))
		return fmt.Errorf("upsert keywords for %s: %w", kw.SKU, err)
	}
	return nil
}

func (s *SQLKeywordStore) Get(ctx context.Context, sku string) (*models.ProductKeywords, error) {
	query := s.bind(fmt.Sprintf(`SELECT sku, product_id, title, product_type, keywords, categorized,
	packaging, fallback, created_at, updated_at FROM %s WHERE sku = ?`, s.quotedTable()))

	var (
		kw                               models.ProductKeywords
		productType                      string
		keywords, categorized, packaging string
	)
	err := s.db.QueryRowContext(ctx, query, sku).Scan(
		&kw.SKU, &kw.ProductID, &kw.Title, &productType,
		&keywords, &categorized, &packaging, &kw.Fallback,
		&kw.CreatedAt, &kw.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrKeywordsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query keywords for %s: %w", sku, err)
	}

	kw.ProductType = matcher.ProductType(productType)
	if err := json.Unmarshal([]byte(keywords), &kw.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords for %s: %w", sku, err)
	}
	if err := json.Unmarshal([]byte(categorized), &kw.Categorized); err != nil {
		return nil, fmt.Errorf("decode categorized keywords for %s: %w", sku, err)
	}
	if err := json.Unmarshal([]byte(packaging), &kw.Packaging); err != nil {
		return nil, fmt.Errorf("decode packaging for %s: %w", sku, err)
	}
	return &kw, nil
}

func (s *SQLKeywordStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.quotedTable())).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count keywords: %w", err)
	}
	return n, nil
}

func (s *SQLKeywordStore) Close() error {
	return s.db.Close()
}
