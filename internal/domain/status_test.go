package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus(" received ")
	assert.True(t, ok)
	assert.Equal(t, OrderReceived, status)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestParseInsightType(t *testing.T) {
	kind, ok := ParseInsightType("RECOMMENDATION")
	assert.True(t, ok)
	assert.Equal(t, InsightRecommendation, kind)
}

func TestDaysOverdue(t *testing.T) {
	order := PurchaseOrder{ExpectedArrivalDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 0, order.DaysOverdue(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, order.DaysOverdue(time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)))
}

func TestStatusAt(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	order := PurchaseOrder{Status: OrderPending, ExpectedArrivalDate: due}

	assert.Equal(t, OrderPending, order.StatusAt(due))
	assert.Equal(t, OrderOverdue, order.StatusAt(due.Add(time.Hour)))

	order.Status = OrderReceived
	assert.Equal(t, OrderReceived, order.StatusAt(due.AddDate(0, 1, 0)))
}

func TestSaleRevenue(t *testing.T) {
	sale := Sale{QuantitySold: 3, SellingPrice: decimal.RequireFromString("9.99")}
	assert.True(t, sale.Revenue().Equal(decimal.RequireFromString("29.97")))
}

func TestParamsScan(t *testing.T) {
	var p Params
	require.NoError(t, p.Scan([]byte(`{"lead_time_days":7}`)))
	assert.Equal(t, float64(7), p["lead_time_days"])

	require.NoError(t, p.Scan(nil))
	assert.Empty(t, p)

	v, err := Params(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
