package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/product-matcher/app/models"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Matches"

var titleHeaders = map[string]bool{
	"title":         true,
	"name":          true,
	"product_title": true,
	"标题":            true,
	"名称":            true,
}

// MatchTitles matches every title against the same candidates. Blank titles
// yield an unmatched outcome instead of an error.
func (ms *MatchService) MatchTitles(ctx context.Context, titles []string, candidates []models.CatalogProduct) ([]*models.MatchOutcome, error) {
	outcomes := make([]*models.MatchOutcome, 0, len(titles))
	for _, title := range titles {
		outcome, err := ms.MatchTitle(ctx, title, candidates)
		if errors.Is(err, models.ErrEmptyTitle) {
			outcomes = append(outcomes, &models.MatchOutcome{Title: title, MatchedTerms: []models.CategorizedTerm{}})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", title, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// LoadCatalog reads the whole catalog page by page.
func LoadCatalog(ctx context.Context, source ICatalogSource, pageSize int) ([]models.CatalogProduct, error) {
	var all []models.CatalogProduct
	for offset := 0; ; offset += pageSize {
		page, err := source.ListProducts(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list products at offset %d: %w", offset, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// ReadTitles loads supplier titles from a workbook. A header cell named title
// or name selects the column; otherwise every row of the first column is a title.
func ReadTitles(path, sheet string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open titles workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return titlesFromRows(rows), nil
}

func titlesFromRows(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	col, start := 0, 0
	for i, header := range rows[0] {
		if titleHeaders[strings.ToLower(strings.TrimSpace(header))] {
			col, start = i, 1
			break
		}
	}

	titles := make([]string, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if col < len(row) {
			titles = append(titles, strings.TrimSpace(row[col]))
		} else {
			titles = append(titles, "")
		}
	}
	return titles
}

// WriteMatchReport saves one row per outcome to a new workbook at path.
func WriteMatchReport(path string, outcomes []*models.MatchOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []interface{}{"Supplier Title", "Normalized", "SKU", "Catalog Title", "Score", "Product Type", "Matched Terms"}
	if err := f.SetSheetRow(reportSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, o := range outcomes {
		var sku, catalogTitle string
		if o.Product != nil {
			sku, catalogTitle = o.Product.SKU, o.Product.Title
		}
		terms := make([]string, 0, len(o.MatchedTerms))
		for _, t := range o.MatchedTerms {
			terms = append(terms, t.Term)
		}

		row := []interface{}{o.Title, o.Normalized, sku, catalogTitle, o.Score, string(o.ProductType), strings.Join(terms, "; ")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for _, col := range []string{"A", "B", "D", "G"} {
		f.SetColWidth(reportSheet, col, col, 40)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
