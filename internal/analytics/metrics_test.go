package analytics

import (
	"testing"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	skus := []domain.SKU{
		{Name: "Widget", CurrentStockLevel: 40, IsActive: true},
		{Name: "Gadget", CurrentStockLevel: 50, IsActive: true},
		{Name: "Gizmo", CurrentStockLevel: 120, IsActive: true},
		{Name: "Retired", CurrentStockLevel: 999, IsActive: false},
	}
	sales := []domain.Sale{
		{QuantitySold: 2, SellingPrice: decimal.RequireFromString("10.005")},
		{QuantitySold: 1, SellingPrice: decimal.RequireFromString("4.99")},
	}

	m := Summarize(skus, sales, DefaultMetricsOptions())

	assert.Equal(t, 3, m.TotalActiveSKUs)
	assert.Equal(t, 210, m.TotalStockCount)
	assert.Equal(t, "5250", m.TotalInventoryValueEstimated.String())
	assert.Equal(t, 2, m.LowStockItemsCount)
	assert.Equal(t, "25", m.TotalSalesRevenue.String())
	assert.Equal(t, 50, m.LowStockThresholdUnits)
}

func TestSummarizeCustomOptions(t *testing.T) {
	skus := []domain.SKU{{CurrentStockLevel: 3, IsActive: true}}

	m := Summarize(skus, nil, MetricsOptions{LowStockThreshold: 2, UnitCost: decimal.RequireFromString("1.255")})

	assert.Equal(t, 0, m.LowStockItemsCount)
	assert.Equal(t, "3.77", m.TotalInventoryValueEstimated.String())
	assert.True(t, m.TotalSalesRevenue.IsZero())
}

func TestSummarizeEmpty(t *testing.T) {
	m := Summarize(nil, nil, DefaultMetricsOptions())

	assert.Zero(t, m.TotalActiveSKUs)
	assert.True(t, m.TotalInventoryValueEstimated.IsZero())
	assert.True(t, m.TotalSalesRevenue.IsZero())
}
