package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const NoRecommendationText = "No recommendations generated yet. Run AI Forecasting to populate."

// PortfolioMetrics is the dashboard summary over all active SKUs and all sales.
type PortfolioMetrics struct {
	TotalActiveSKUs              int             `json:"total_active_skus"`
	TotalStockCount              int             `json:"total_stock_count"`
	TotalInventoryValueEstimated decimal.Decimal `json:"total_inventory_value_estimated"`
	LowStockItemsCount           int             `json:"low_stock_items_count"`
	TotalSalesRevenue            decimal.Decimal `json:"total_sales_revenue"`
	LowStockThresholdUnits       int             `json:"low_stock_threshold_units"`
	UnitCostAssumption           decimal.Decimal `json:"unit_cost_assumption"`
}

// DashboardMetrics adds the latest saved reorder recommendation to the portfolio metrics.
type DashboardMetrics struct {
	PortfolioMetrics
	LastAIRecommendation string `json:"last_ai_recommendation"`
}

// OverdueAlert describes a pending order past its expected arrival date.
type OverdueAlert struct {
	OrderID         uuid.UUID `json:"order_id"`
	SKUID           uuid.UUID `json:"sku_id"`
	ExpectedArrival string    `json:"expected_arrival"`
	DaysOverdue     int       `json:"days_overdue"`
}

// SummaryReport is the rendered inventory summary.
type SummaryReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Text        string           `json:"report_summary"`
	Metrics     DashboardMetrics `json:"metrics"`
}
