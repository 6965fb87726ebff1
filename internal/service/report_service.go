package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/andresuchdata/stockwise/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportCSV  ReportFormat = "csv"
	ReportXLSX ReportFormat = "xlsx"
)

// ErrStorageDisabled is returned by Export when no object storage is configured.
var ErrStorageDisabled = errors.New("report storage is not configured")

func ParseReportFormat(raw string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReportText:
		return ReportText, nil
	case ReportCSV:
		return ReportCSV, nil
	case ReportXLSX:
		return ReportXLSX, nil
	}
	return "", fmt.Errorf("unknown report format %q: %w", raw, domain.ErrInvalidInput)
}

// ContentType returns the MIME type of a rendered report.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportCSV:
		return "text/csv"
	case ReportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

func (f ReportFormat) Extension() string {
	if f == ReportText {
		return "txt"
	}
	return string(f)
}

type ReportService struct {
	skus    repository.SKURepository
	sales   repository.SaleRepository
	history repository.AIHistoryRepository
	cache   cache.DashboardCache
	storage storage.ObjectStorage
	opts    analytics.MetricsOptions
	prefix  string
	now     func() time.Time
}

// NewReportService builds the dashboard and report service. objects may be nil
// when exports are disabled.
func NewReportService(
	skus repository.SKURepository,
	sales repository.SaleRepository,
	history repository.AIHistoryRepository,
	cacheImpl cache.DashboardCache,
	objects storage.ObjectStorage,
	opts analytics.MetricsOptions,
	prefix string,
) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &ReportService{
		skus:    skus,
		sales:   sales,
		history: history,
		cache:   cacheImpl,
		storage: objects,
		opts:    opts,
		prefix:  strings.Trim(prefix, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// DashboardMetrics returns the portfolio metrics plus the latest saved
// recommendation text, served from cache when possible.
func (s *ReportService) DashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache read failed")
	} else if ok {
		return cached, nil
	}

	var (
		skus   []*domain.SKU
		sales  []domain.Sale
		latest = domain.NoRecommendationText
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skus, err = s.skus.List(gctx, repository.SKUFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.sales.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		entry, err := s.history.Latest(gctx, domain.InsightRecommendation)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		latest = entry.Output
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard data: %w", err)
	}

	values := make([]domain.SKU, 0, len(skus))
	for _, sku := range skus {
		values = append(values, *sku)
	}

	metrics := &domain.DashboardMetrics{
		PortfolioMetrics:     analytics.Summarize(values, sales, s.opts),
		LastAIRecommendation: latest,
	}
	if err := s.cache.Set(ctx, metrics); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache write failed")
	}
	return metrics, nil
}

func (s *ReportService) SummaryReport(ctx context.Context) (*domain.SummaryReport, error) {
	metrics, err := s.DashboardMetrics(ctx)
	if err != nil {
		return nil, err
	}
	generated := s.now()
	return &domain.SummaryReport{
		GeneratedAt: generated,
		Text:        summaryText(generated, metrics),
		Metrics:     *metrics,
	}, nil
}

// Render produces the report body in the requested format.
func (s *ReportService) Render(ctx context.Context, format ReportFormat) ([]byte, error) {
	report, err := s.SummaryReport(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case ReportCSV:
		return RenderCSV(&report.Metrics)
	case ReportXLSX:
		return RenderXLSX(report)
	}
	return []byte(report.Text), nil
}

// Export renders the report and uploads it, returning the object key.
func (s *ReportService) Export(ctx context.Context, format ReportFormat) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}
	body, err := s.Render(ctx, format)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("stockwise_report_%s.%s", s.now().Format("20060102T150405Z"), format.Extension())
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	if err := s.storage.PutObject(ctx, key, body, format.ContentType()); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	log.Info().Str("key", key).Str("format", string(format)).Int("bytes", len(body)).Msg("report exported")
	return key, nil
}

func summaryText(generated time.Time, m *domain.DashboardMetrics) string {
	var b strings.Builder
	b.WriteString("STOCKWISE AI INVENTORY SUMMARY REPORT\n")
	fmt.Fprintf(&b, "Generated Date: %s UTC\n\n", generated.Format("2006-01-02 15:04:05"))
	b.WriteString("--- INVENTORY OVERVIEW ---\n")
	fmt.Fprintf(&b, "Total Active Products (SKUs): %d\n", m.TotalActiveSKUs)
	fmt.Fprintf(&b, "Total Units in Stock: %d\n", m.TotalStockCount)
	fmt.Fprintf(&b, "Estimated Inventory Value: $%s\n", analytics.FormatFixed(m.TotalInventoryValueEstimated))
	fmt.Fprintf(&b, "Low Stock Alerts (at or below %d units): %d\n\n", m.LowStockThresholdUnits, m.LowStockItemsCount)
	b.WriteString("--- SALES PERFORMANCE ---\n")
	fmt.Fprintf(&b, "Total Sales Revenue Recorded: $%s\n\n", analytics.FormatFixed(m.TotalSalesRevenue))
	b.WriteString("--- AI RECOMMENDATION SUMMARY ---\n")
	fmt.Fprintf(&b, "The last major AI insight was: %s\n", m.LastAIRecommendation)
	return b.String()
}

func metricRows(m *domain.DashboardMetrics) [][2]string {
	return [][2]string{
		{"total_active_skus", strconv.Itoa(m.TotalActiveSKUs)},
		{"total_stock_count", strconv.Itoa(m.TotalStockCount)},
		{"total_inventory_value_estimated", analytics.FormatFixed(m.TotalInventoryValueEstimated)},
		{"low_stock_items_count", strconv.Itoa(m.LowStockItemsCount)},
		{"total_sales_revenue", analytics.FormatFixed(m.TotalSalesRevenue)},
		{"low_stock_threshold_units", strconv.Itoa(m.LowStockThresholdUnits)},
		{"unit_cost_assumption", analytics.FormatFixed(m.UnitCostAssumption)},
		{"last_ai_recommendation", m.LastAIRecommendation},
	}
}

// RenderCSV writes the metrics as Metric,Value rows.
func RenderCSV(m *domain.DashboardMetrics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Metric", "Value"}); err != nil {
		return nil, err
	}
	for _, row := range metricRows(m) {
		if err := w.Write(row[:]); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv report: %w", err)
	}
	return buf.Bytes(), nil
}

const (
	metricsSheet = "Metrics"
	summarySheet = "Summary"
)

// RenderXLSX builds a workbook with a metrics sheet and the summary text.
func RenderXLSX(report *domain.SummaryReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("close xlsx report")
		}
	}()

	if err := f.SetSheetName("Sheet1", metricsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(metricsSheet, "A1", &[]any{"Metric", "Value"}); err != nil {
		return nil, err
	}
	for i, row := range metricRows(&report.Metrics) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(metricsSheet, cell, &[]any{row[0], row[1]}); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(metricsSheet, "A", "A", 34); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	for i, line := range strings.Split(report.Text, "\n") {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(summarySheet, cell, line); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}
