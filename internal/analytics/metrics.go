package analytics

import (
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockThreshold = 50
	DefaultUnitCost          = 25
)

// MetricsOptions carries the portfolio assumptions. The unit cost is a flat
// placeholder applied to every unit, not a costing model.
type MetricsOptions struct {
	LowStockThreshold int
	UnitCost          decimal.Decimal
}

func DefaultMetricsOptions() MetricsOptions {
	return MetricsOptions{
		LowStockThreshold: DefaultLowStockThreshold,
		UnitCost:          decimal.NewFromInt(DefaultUnitCost),
	}
}

// Summarize folds SKUs and sales into portfolio metrics. Inactive SKUs are
// skipped; revenue counts every sale.
func Summarize(skus []domain.SKU, sales []domain.Sale, opts MetricsOptions) domain.PortfolioMetrics {
	m := domain.PortfolioMetrics{
		LowStockThresholdUnits: opts.LowStockThreshold,
		UnitCostAssumption:     opts.UnitCost,
	}

	value := decimal.Zero
	for _, sku := range skus {
		if !sku.IsActive {
			continue
		}
		m.TotalActiveSKUs++
		m.TotalStockCount += sku.CurrentStockLevel
		value = value.Add(opts.UnitCost.Mul(decimal.NewFromInt(int64(sku.CurrentStockLevel))))
		if sku.CurrentStockLevel <= opts.LowStockThreshold {
			m.LowStockItemsCount++
		}
	}

	revenue := decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(s.Revenue())
	}

	m.TotalInventoryValueEstimated = value.Round(2)
	m.TotalSalesRevenue = revenue.Round(2)
	return m
}
