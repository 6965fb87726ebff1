package analytics

import (
	"errors"
	"testing"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var floor = decimal.NewFromInt(DefaultMinimumWeeklyDemand)

func TestEstimateBaseline(t *testing.T) {
	b := EstimateBaseline(decimal.Zero, floor)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(15)))
	assert.True(t, b.Substituted)
	assert.True(t, b.FloorUsed.Equal(floor))

	b = EstimateBaseline(decimal.NewFromInt(20), floor)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(20)))
	assert.False(t, b.Substituted)
	assert.True(t, b.FloorUsed.Equal(floor))

	b = EstimateBaseline(decimal.NewFromInt(15), floor)
	assert.False(t, b.Substituted, "equal to floor is not a substitution")
}

func TestComputeReorder(t *testing.T) {
	plan, err := ComputeReorder(decimal.NewFromInt(70), 7, 50)
	require.NoError(t, err)

	assert.Equal(t, "10", plan.AverageDailyDemand.String())
	assert.Equal(t, "120", plan.ReorderPoint.String())
	assert.Equal(t, "280", plan.ReorderQuantity.String())
	assert.Equal(t, 7, plan.Inputs.LeadTimeDays)
	assert.Equal(t, 50, plan.Inputs.SafetyStockUnits)
}

func TestComputeReorderQuantityIgnoresLeadTime(t *testing.T) {
	short, err := ComputeReorder(decimal.NewFromInt(15), 1, 0)
	require.NoError(t, err)
	long, err := ComputeReorder(decimal.NewFromInt(15), 30, 0)
	require.NoError(t, err)

	assert.True(t, short.ReorderQuantity.Equal(long.ReorderQuantity))
	assert.Equal(t, "60", long.ReorderQuantity.String())
	assert.Equal(t, "64.29", long.ReorderPoint.String())
	assert.Equal(t, "2.14", long.AverageDailyDemand.String())
}

func TestComputeReorderInvalidInput(t *testing.T) {
	_, err := ComputeReorder(decimal.NewFromInt(70), 0, 50)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ComputeReorder(decimal.NewFromInt(70), 7, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestComputeReorderIsDeterministic(t *testing.T) {
	a, errA := ComputeReorder(decimal.RequireFromString("33.33"), 5, 12)
	b, errB := ComputeReorder(decimal.RequireFromString("33.33"), 5, 12)
	require.NoError(t, errA)
	require.NoError(t, errB)

	assert.Equal(t, a, b)
}

func TestAssess(t *testing.T) {
	plan, err := ComputeReorder(decimal.NewFromInt(70), 7, 50)
	require.NoError(t, err)

	pos := Assess(plan, 100)
	assert.True(t, pos.BelowReorderPoint)
	assert.Equal(t, int64(280), pos.SuggestedOrderUnits)
	assert.Equal(t, "10", pos.DaysOfCover.String())

	pos = Assess(plan, 500)
	assert.False(t, pos.BelowReorderPoint)
	assert.Zero(t, pos.SuggestedOrderUnits)
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "120.00", FormatFixed(decimal.NewFromInt(120)))
	assert.Equal(t, "0.00", FormatFixed(decimal.RequireFromString("1e-9")))
	assert.Equal(t, "1000000.00", FormatFixed(decimal.RequireFromString("1e6")))
}
