package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/product-matcher/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSliceCatalogSource(t *testing.T) {
	ctx := context.Background()
	source := NewSliceCatalogSource(testCatalog)

	n, err := source.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	page, err := source.ListProducts(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = source.ListProducts(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "XI-CUT", page[0].SKU)

	page, err = source.ListProducts(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestProductsFromRows(t *testing.T) {
	t.Run("maps header aliases", func(t *testing.T) {
		rows := [][]string{
			{"SKU", " Name ", "Brand", "Ring_Gauge", "Length"},
			{"COH-ROB", "Cohiba Robusto", "Cohiba", "50", "124"},
			{},
			{"PUN-PUN", "Punch Punch"},
		}
		products, err := productsFromRows(rows)
		require.NoError(t, err)
		assert.Equal(t, []models.CatalogProduct{
			{ID: "row-2", SKU: "COH-ROB", Title: "Cohiba Robusto", Brand: "Cohiba", SeatRow: "50", SeatNumber: "124"},
			{ID: "row-4", SKU: "PUN-PUN", Title: "Punch Punch"},
		}, products)
	})

	t.Run("requires sku and title", func(t *testing.T) {
		_, err := productsFromRows([][]string{{"id", "title"}})
		assert.Error(t, err)

		_, err = productsFromRows(nil)
		assert.Error(t, err)
	})
}

func TestOpenExcelCatalogSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"id", "sku", "title", "brand", "seat_row", "seat_number"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"10", "MC-ED", "Montecristo Edmundo", "Montecristo", "52", "135"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	source, err := OpenExcelCatalogSource(path, "")
	require.NoError(t, err)

	products, err := source.ListProducts(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.CatalogProduct{
		{ID: "10", SKU: "MC-ED", Title: "Montecristo Edmundo", Brand: "Montecristo", SeatRow: "52", SeatNumber: "135"},
	}, products)

	_, err = OpenExcelCatalogSource(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}
