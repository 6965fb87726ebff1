package domain

import "strings"

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "Pending"
	OrderReceived OrderStatus = "Received"
	OrderOverdue  OrderStatus = "Overdue"
)

var orderStatuses = map[string]OrderStatus{
	"pending":  OrderPending,
	"received": OrderReceived,
	"overdue":  OrderOverdue,
}

// ParseOrderStatus returns the status for a given label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, bool) {
	status, ok := orderStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// InsightType classifies a saved AI insight.
type InsightType string

const (
	InsightForecast       InsightType = "Forecast"
	InsightRecommendation InsightType = "Recommendation"
	InsightScenario       InsightType = "Scenario"
)

var insightTypes = map[string]InsightType{
	"forecast":       InsightForecast,
	"recommendation": InsightRecommendation,
	"scenario":       InsightScenario,
}

// ParseInsightType returns the insight type for a given label (case-insensitive).
func ParseInsightType(label string) (InsightType, bool) {
	kind, ok := insightTypes[strings.ToLower(strings.TrimSpace(label))]

	return kind, ok
}
