package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type SalesService struct {
	skus  repository.SKURepository
	sales repository.SaleRepository
	cache cache.DashboardCache
}

func NewSalesService(skus repository.SKURepository, sales repository.SaleRepository, cacheImpl cache.DashboardCache) *SalesService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &SalesService{skus: skus, sales: sales, cache: cacheImpl}
}

type RecordSaleInput struct {
	SKUID        uuid.UUID
	Quantity     int
	SellingPrice decimal.Decimal
	// SaleDate is free-form; unparseable values are recorded as now.
	SaleDate string
}

type RecordSaleResult struct {
	Sale     domain.Sale
	NewStock int
	// DateFallback reports that SaleDate could not be parsed.
	DateFallback bool
}

// RecordSale stores the sale and takes the sold quantity out of stock.
func (s *SalesService) RecordSale(ctx context.Context, in RecordSaleInput) (*RecordSaleResult, error) {
	if in.Quantity <= 0 || !in.SellingPrice.IsPositive() {
		return nil, fmt.Errorf("quantity sold and selling price must be positive: %w", domain.ErrInvalidInput)
	}

	sku, err := s.skus.Get(ctx, in.SKUID)
	if err != nil {
		return nil, err
	}
	if sku.CurrentStockLevel < in.Quantity {
		return nil, fmt.Errorf("sale of %d exceeds stock of %d: %w", in.Quantity, sku.CurrentStockLevel, domain.ErrInsufficientStock)
	}

	saleDate, ok := analytics.NormalizeDate(in.SaleDate)
	if !ok {
		log.Warn().
			Str("sku_id", in.SKUID.String()).
			Str("sale_date", in.SaleDate).
			Msg("could not parse sale date, using current UTC time")
	}

	newStock, err := s.skus.AdjustStock(ctx, in.SKUID, -in.Quantity)
	if err != nil {
		return nil, err
	}

	sale := domain.Sale{
		ID:           uuid.New(),
		SKUID:        in.SKUID,
		SaleDate:     saleDate,
		QuantitySold: in.Quantity,
		SellingPrice: in.SellingPrice,
	}
	if err := s.sales.Create(ctx, &sale); err != nil {
		if _, restoreErr := s.skus.AdjustStock(ctx, in.SKUID, in.Quantity); restoreErr != nil {
			log.Error().Err(restoreErr).Str("sku_id", in.SKUID.String()).Msg("failed to restore stock after sale error")
		}
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	return &RecordSaleResult{Sale: sale, NewStock: newStock, DateFallback: !ok}, nil
}

type SalesSummary struct {
	SKUName    string                 `json:"sku_name"`
	StockLevel int                    `json:"stock_level"`
	TimePeriod analytics.Period       `json:"time_period"`
	Data       analytics.TrendSummary `json:"data"`
}

func (s *SalesService) Summary(ctx context.Context, skuID uuid.UUID, period analytics.Period, r analytics.DateRange) (*SalesSummary, error) {
	sku, events, err := loadSalesHistory(ctx, s.skus, s.sales, skuID)
	if err != nil {
		return nil, err
	}

	return &SalesSummary{
		SKUName:    sku.Name,
		StockLevel: sku.CurrentStockLevel,
		TimePeriod: period,
		Data:       analytics.AggregateRange(events, period, r),
	}, nil
}

func loadSalesHistory(ctx context.Context, skus repository.SKURepository, sales repository.SaleRepository, skuID uuid.UUID) (*domain.SKU, []analytics.SalesEvent, error) {
	sku, err := skus.Get(ctx, skuID)
	if err != nil {
		return nil, nil, err
	}
	history, err := sales.ListBySKU(ctx, skuID)
	if err != nil {
		return nil, nil, err
	}
	return sku, analytics.EventsFromSales(history), nil
}
