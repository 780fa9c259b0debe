package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/product-matcher/app/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ICatalogSource pages through the read-only product catalog.
type ICatalogSource interface {
	ListProducts(ctx context.Context, offset, limit int) ([]models.CatalogProduct, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// SliceCatalogSource serves a catalog held in memory.
type SliceCatalogSource struct {
	products []models.CatalogProduct
}

func NewSliceCatalogSource(products []models.CatalogProduct) *SliceCatalogSource {
	return &SliceCatalogSource{products: products}
}

func (s *SliceCatalogSource) ListProducts(ctx context.Context, offset, limit int) ([]models.CatalogProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset >= len(s.products) || limit <= 0 {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.products) {
		end = len(s.products)
	}
	return s.products[offset:end], nil
}

func (s *SliceCatalogSource) Count(ctx context.Context) (int, error) {
	return len(s.products), nil
}

func (s *SliceCatalogSource) Close() error {
	return nil
}

// PostgresCatalogSource reads products from a PostgreSQL table with the columns
// id, sku, title, brand, seat_row and seat_number.
type PostgresCatalogSource struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

func OpenPostgresCatalogSource(ctx context.Context, dsn, table string, logger *zap.Logger) (*PostgresCatalogSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	logger.Info("Catalog source ready", zap.String("table", table))
	return &PostgresCatalogSource{db: db, table: table, logger: logger}, nil
}

func (s *PostgresCatalogSource) ListProducts(ctx context.Context, offset, limit int) ([]models.CatalogProduct, error) {
	query := fmt.Sprintf(`SELECT id::text, sku, title, COALESCE(brand, ''), COALESCE(seat_row, ''), COALESCE(seat_number, '')
FROM %s ORDER BY id LIMIT $1 OFFSET $2`, pq.QuoteIdentifier(s.table))

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list catalog products: %w", err)
	}
	defer rows.Close()

	var products []models.CatalogProduct
	for rows.Next() {
		var p models.CatalogProduct
		if err := rows.Scan(&p.ID, &p.SKU, &p.Title, &p.Brand, &p.SeatRow, &p.SeatNumber); err != nil {
			return nil, fmt.Errorf("scan catalog product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresCatalogSource) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(s.table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog products: %w", err)
	}
	return n, nil
}

func (s *PostgresCatalogSource) Close() error {
	return s.db.Close()
}

// catalogColumns maps accepted header names to product fields.
var catalogColumns = map[string]string{
	"id":          "id",
	"product_id":  "id",
	"sku":         "sku",
	"title":       "title",
	"name":        "title",
	"brand":       "brand",
	"seat_row":    "seat_row",
	"ring_gauge":  "seat_row",
	"seat_number": "seat_number",
	"length":      "seat_number",
}

// OpenExcelCatalogSource loads the catalog from a workbook. The first row of
// sheet (or of the first sheet when sheet is empty) is the header; sku and
// title columns are required.
func OpenExcelCatalogSource(path, sheet string) (*SliceCatalogSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in %s", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	products, err := productsFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewSliceCatalogSource(products), nil
}

func productsFromRows(rows [][]string) ([]models.CatalogProduct, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog sheet is empty")
	}

	cols := make(map[string]int)
	for i, header := range rows[0] {
		if field, ok := catalogColumns[strings.ToLower(strings.TrimSpace(header))]; ok {
			if _, seen := cols[field]; !seen {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"sku", "title"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("required column %q not found", required)
		}
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []models.CatalogProduct
	for n, row := range rows[1:] {
		p := models.CatalogProduct{
			ID:         cell(row, "id"),
			SKU:        cell(row, "sku"),
			Title:      cell(row, "title"),
			Brand:      cell(row, "brand"),
			SeatRow:    cell(row, "seat_row"),
			SeatNumber: cell(row, "seat_number"),
		}
		if p.SKU == "" && p.Title == "" {
			continue
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("row-%d", n+2)
		}
		products = append(products, p)
	}
	return products, nil
}
