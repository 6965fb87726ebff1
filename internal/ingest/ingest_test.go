package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository/memory"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/andresuchdata/stockwise/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	id := uuid.New()
	input := strings.Join([]string{
		"SKUID,Sale_Date,Quantity_Sold,Selling_Price",
		fmt.Sprintf("%s,2024-01-02,3,4.50", id),
		"not-a-uuid,2024-01-03,1,1",
		fmt.Sprintf("%s,2024-01-04,x,1", id),
	}, "\n")

	rows, rowErrs, err := ParseCSV("sales.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].SKUID)
	assert.Equal(t, 3, rows[0].QuantitySold)
	assert.Equal(t, "4.5", rows[0].SellingPrice.String())
	assert.Equal(t, 2, rows[0].Line)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, 4, rowErrs[1].Line)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, _, err := ParseCSV("sales.csv", strings.NewReader("sku_id,sale_date\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selling_price")
}

func TestParseXLSX(t *testing.T) {
	id := uuid.New()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"sku_id", "sale_date", "quantity_sold", "selling_price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{id.String(), "2024-02-01", "7", "2.25"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, rowErrs, err := Parse(File{Name: "sales.XLSX", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].QuantitySold)
	assert.Equal(t, "2024-02-01", rows[0].SaleDate)
}

func TestParse_Unsupported(t *testing.T) {
	_, _, err := Parse(File{Name: "sales.json"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func newSalesSetup(t *testing.T, stock int) (*service.SalesService, *domain.SKU, *memory.SKURepository) {
	t.Helper()
	skus := memory.NewSKURepository()
	sku := &domain.SKU{ID: uuid.New(), Name: "Widget", UnitOfMeasure: "pcs", CurrentStockLevel: stock, IsActive: true}
	require.NoError(t, skus.Create(context.Background(), sku))
	return service.NewSalesService(skus, memory.NewSaleRepository(), nil), sku, skus
}

func TestImporter_RecordsInDateOrder(t *testing.T) {
	ctx := context.Background()
	sales, sku, skus := newSalesSetup(t, 10)

	// The later sale would fail if the earlier one were recorded first,
	// since together they exceed stock.
	a := fmt.Sprintf("sku_id,sale_date,quantity_sold,selling_price\n%s,2024-03-10,4,1\n", sku.ID)
	b := fmt.Sprintf("sku_id,sale_date,quantity_sold,selling_price\n%s,2024-03-01,8,1\n%s,2024-03-05,bad,1\n", sku.ID, sku.ID)

	report, err := NewImporter(sales, 2).Import(ctx, []File{
		{Name: "a.csv", Data: []byte(a)},
		{Name: "b.csv", Data: []byte(b)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Failed, 2)
	assert.Equal(t, "a.csv", report.Failed[0].File)
	assert.Contains(t, report.Failed[0].Reason, "insufficient stock")
	assert.Equal(t, "b.csv", report.Failed[1].File)

	got, err := skus.Get(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStockLevel)
}

func TestImporter_BadFileAbortsBeforeRecording(t *testing.T) {
	ctx := context.Background()
	sales, sku, skus := newSalesSetup(t, 10)

	good := fmt.Sprintf("sku_id,sale_date,quantity_sold,selling_price\n%s,2024-03-10,4,1\n", sku.ID)
	_, err := NewImporter(sales, 0).Import(ctx, []File{
		{Name: "good.csv", Data: []byte(good)},
		{Name: "bad.csv", Data: []byte("date,qty\n")},
	})
	require.Error(t, err)

	got, err := skus.Get(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStockLevel)
}

func TestLocalSource_LoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("y"), 0o644))

	files, err := LocalSource{}.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "jan.csv", files[0].Name)

	single, err := LocalSource{}.Load(context.Background(), filepath.Join(dir, "jan.csv"))
	require.NoError(t, err)
	require.Len(t, single, 1)
}

func TestObjectSource_LoadsPrefix(t *testing.T) {
	root := t.TempDir()
	objects, err := storage.NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, objects.PutObject(ctx, "imports/feb.csv", []byte("a"), "text/csv"))
	require.NoError(t, objects.PutObject(ctx, "imports/readme.md", []byte("b"), "text/markdown"))

	files, err := ObjectSource{Storage: objects}.Load(ctx, "imports")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "feb.csv", files[0].Name)
	assert.Equal(t, []byte("a"), files[0].Data)
}
