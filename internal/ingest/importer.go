package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultParseWorkers = 4

// SaleRecorder is the part of the sales service the importer needs.
type SaleRecorder interface {
	RecordSale(ctx context.Context, in service.RecordSaleInput) (*service.RecordSaleResult, error)
}

// Report summarises an import run.
type Report struct {
	Files    int        `json:"files"`
	RowsRead int        `json:"rows_read"`
	Imported int        `json:"imported"`
	Failed   []RowError `json:"failed"`
}

type Importer struct {
	sales   SaleRecorder
	workers int
}

func NewImporter(sales SaleRecorder, workers int) *Importer {
	if workers <= 0 {
		workers = defaultParseWorkers
	}
	return &Importer{sales: sales, workers: workers}
}

// Load reads files from src and imports them.
func (im *Importer) Load(ctx context.Context, src Source, ref string) (*Report, error) {
	files, err := src.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, files)
}

// Import parses files concurrently, then records every row in sale-date
// order so each stock decrement lands in the order it happened. A file that
// cannot be parsed at all aborts the import before anything is recorded.
func (im *Importer) Import(ctx context.Context, files []File) (*Report, error) {
	report := &Report{Files: len(files), Failed: []RowError{}}

	var (
		mu   sync.Mutex
		rows []SaleRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed, rowErrs, err := Parse(f)
			if err != nil {
				return err
			}
			mu.Lock()
			rows = append(rows, parsed...)
			report.Failed = append(report.Failed, rowErrs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.RowsRead = len(rows) + len(report.Failed)
	sortRows(rows)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		_, err := im.sales.RecordSale(ctx, service.RecordSaleInput{
			SKUID:        row.SKUID,
			Quantity:     row.QuantitySold,
			SellingPrice: row.SellingPrice,
			SaleDate:     row.SaleDate,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			report.Failed = append(report.Failed, RowError{File: row.File, Line: row.Line, Reason: err.Error()})
			continue
		}
		report.Imported++
	}

	sort.SliceStable(report.Failed, func(i, j int) bool {
		if report.Failed[i].File != report.Failed[j].File {
			return report.Failed[i].File < report.Failed[j].File
		}
		return report.Failed[i].Line < report.Failed[j].Line
	})

	log.Info().
		Int("files", report.Files).
		Int("rows", report.RowsRead).
		Int("imported", report.Imported).
		Int("failed", len(report.Failed)).
		Msg("sales import finished")
	return report, nil
}

// sortRows orders rows by sale date, then by file and line. Rows without a
// usable date are recorded at the current time, so they go last.
func sortRows(rows []SaleRow) {
	type keyed struct {
		row   SaleRow
		at    time.Time
		dated bool
	}
	items := make([]keyed, len(rows))
	for i, r := range rows {
		at, ok := analytics.NormalizeDate(r.SaleDate)
		items[i] = keyed{row: r, at: at, dated: ok && r.SaleDate != ""}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.dated != b.dated {
			return a.dated
		}
		if a.dated && !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		if a.row.File != b.row.File {
			return a.row.File < b.row.File
		}
		return a.row.Line < b.row.Line
	})
	for i := range items {
		rows[i] = items[i].row
	}
}
