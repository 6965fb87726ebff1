// Package ingest bulk-loads historical sales from CSV and XLSX exports.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported sales file format")

// File is a named sales export loaded into memory.
type File struct {
	Name string
	Data []byte
}

// SaleRow is one parsed line of a sales export.
type SaleRow struct {
	File         string
	Line         int
	SKUID        uuid.UUID
	SaleDate     string
	QuantitySold int
	SellingPrice decimal.Decimal
}

// RowError records a line that could not be parsed or recorded.
type RowError struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

var headerAliases = map[string]string{
	"sku_id":        "sku_id",
	"skuid":         "sku_id",
	"sku":           "sku_id",
	"sale_date":     "sale_date",
	"date":          "sale_date",
	"quantity_sold": "quantity_sold",
	"quantity":      "quantity_sold",
	"qty":           "quantity_sold",
	"selling_price": "selling_price",
	"price":         "selling_price",
}

var requiredColumns = []string{"sku_id", "quantity_sold", "selling_price"}

// Supported reports whether name has an extension the parser understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Parse dispatches on the file extension. A missing required column fails the
// whole file; bad rows are returned as RowErrors.
func Parse(f File) ([]SaleRow, []RowError, error) {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv":
		return ParseCSV(f.Name, bytes.NewReader(f.Data))
	case ".xlsx":
		return ParseXLSX(f.Name, f.Data)
	}
	return nil, nil, fmt.Errorf("%s: %w", f.Name, ErrUnsupportedFormat)
}

func ParseCSV(name string, r io.Reader) ([]SaleRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", name, err)
	}
	return parseRecords(name, records)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(name string, data []byte) ([]SaleRow, []RowError, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx file %s has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows from %s: %w", name, err)
	}
	return parseRecords(name, rows)
}

func parseRecords(name string, records [][]string) ([]SaleRow, []RowError, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", name)
	}

	colMap := make(map[string]int)
	for i, col := range records[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			if _, seen := colMap[canonical]; !seen {
				colMap[canonical] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, nil, fmt.Errorf("%s: missing required column: %s", name, col)
		}
	}

	var (
		rows    []SaleRow
		rowErrs []RowError
	)
	for i, record := range records[1:] {
		line := i + 2
		if blank(record) {
			continue
		}
		row, err := parseRow(colMap, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{File: name, Line: line, Reason: err.Error()})
			continue
		}
		row.File = name
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func parseRow(colMap map[string]int, record []string) (SaleRow, error) {
	get := func(col string) string {
		idx, ok := colMap[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var row SaleRow
	id, err := uuid.Parse(get("sku_id"))
	if err != nil {
		return row, fmt.Errorf("invalid sku_id %q", get("sku_id"))
	}
	qty, err := strconv.Atoi(get("quantity_sold"))
	if err != nil {
		return row, fmt.Errorf("invalid quantity_sold %q", get("quantity_sold"))
	}
	price, err := decimal.NewFromString(get("selling_price"))
	if err != nil {
		return row, fmt.Errorf("invalid selling_price %q", get("selling_price"))
	}

	row.SKUID = id
	row.QuantitySold = qty
	row.SellingPrice = price
	row.SaleDate = get("sale_date")
	return row, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
