package analytics

import (
	"fmt"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultMinimumWeeklyDemand is the cold-start demand floor in units per week.
	DefaultMinimumWeeklyDemand = 15
	// CoverWeeks is how many weeks of baseline demand one reorder covers.
	CoverWeeks = 4
)

var daysPerWeek = decimal.NewFromInt(7)

// BaselineDemand is the weekly demand figure used for reorder arithmetic.
type BaselineDemand struct {
	Value       decimal.Decimal `json:"value"`
	Substituted bool            `json:"substituted"`
	FloorUsed   decimal.Decimal `json:"floor_used"`
}

// EstimateBaseline returns max(average, floor), flagging when the floor won.
func EstimateBaseline(average, floor decimal.Decimal) BaselineDemand {
	b := BaselineDemand{Value: average, FloorUsed: floor}
	if average.LessThan(floor) {
		b.Value = floor
		b.Substituted = true
	}
	return b
}

type ReorderInputs struct {
	LeadTimeDays         int             `json:"lead_time_days"`
	SafetyStockUnits     int             `json:"safety_stock_units"`
	BaselineWeeklyDemand decimal.Decimal `json:"baseline_weekly_demand"`
}

type ReorderPlan struct {
	AverageDailyDemand decimal.Decimal `json:"average_daily_demand"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	ReorderQuantity    decimal.Decimal `json:"reorder_quantity"`
	Inputs             ReorderInputs   `json:"inputs"`
}

// ComputeReorder applies reorder point = daily demand * lead time + safety stock
// and reorder quantity = four weeks of baseline demand.
func ComputeReorder(baseline decimal.Decimal, leadTimeDays, safetyStockUnits int) (ReorderPlan, error) {
	if leadTimeDays <= 0 {
		return ReorderPlan{}, fmt.Errorf("lead time must be a positive number of days, got %d: %w", leadTimeDays, domain.ErrInvalidInput)
	}
	if safetyStockUnits < 0 {
		return ReorderPlan{}, fmt.Errorf("safety stock cannot be negative, got %d: %w", safetyStockUnits, domain.ErrInvalidInput)
	}

	lead := decimal.NewFromInt(int64(leadTimeDays))
	safety := decimal.NewFromInt(int64(safetyStockUnits))

	// Multiply before dividing so whole-week demand stays exact.
	point := baseline.Mul(lead).Div(daysPerWeek).Add(safety)

	return ReorderPlan{
		AverageDailyDemand: baseline.Div(daysPerWeek).Round(2),
		ReorderPoint:       point.Round(2),
		ReorderQuantity:    baseline.Mul(decimal.NewFromInt(CoverWeeks)).Round(2),
		Inputs: ReorderInputs{
			LeadTimeDays:         leadTimeDays,
			SafetyStockUnits:     safetyStockUnits,
			BaselineWeeklyDemand: baseline,
		},
	}, nil
}

// StockPosition compares current stock against a reorder plan.
type StockPosition struct {
	CurrentStock      int             `json:"current_stock"`
	DaysOfCover       decimal.Decimal `json:"days_of_cover"`
	BelowReorderPoint bool            `json:"below_reorder_point"`
	// SuggestedOrderUnits is the reorder quantity rounded up to whole units,
	// or zero when stock is still above the reorder point.
	SuggestedOrderUnits int64 `json:"suggested_order_units"`
}

// Assess reports how long current stock lasts at the plan's daily demand and
// whether an order should be placed now.
func Assess(plan ReorderPlan, currentStock int) StockPosition {
	stock := decimal.NewFromInt(int64(currentStock))
	pos := StockPosition{CurrentStock: currentStock, DaysOfCover: decimal.Zero}

	daily := plan.Inputs.BaselineWeeklyDemand.Div(daysPerWeek)
	if daily.IsPositive() {
		pos.DaysOfCover = stock.Div(daily).Round(2)
	}

	pos.BelowReorderPoint = stock.LessThanOrEqual(plan.ReorderPoint)
	if pos.BelowReorderPoint {
		pos.SuggestedOrderUnits = plan.ReorderQuantity.Ceil().IntPart()
	}
	return pos
}

// FormatFixed renders d with two decimals and no exponent, for embedding in text.
func FormatFixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
