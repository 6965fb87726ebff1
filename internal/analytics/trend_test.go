package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func event(date string, qty int) SalesEvent {
	return SalesEvent{Timestamp: day(date), Quantity: qty}
}

func bucketSum(s TrendSummary) int {
	total := 0
	for _, b := range s.SalesOverTime {
		total += b.QuantitySum
	}
	return total
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, PeriodWeek)

	assert.NotNil(t, s.SalesOverTime)
	assert.Empty(t, s.SalesOverTime)
	assert.True(t, s.AverageSalesPerPeriod.IsZero())
	assert.Equal(t, 0, s.TotalSalesCount)
}

func TestAggregateWeeklyGapFill(t *testing.T) {
	events := []SalesEvent{event("2024-01-01", 5), event("2024-01-22", 3)}

	s := Aggregate(events, PeriodWeek)

	require.Len(t, s.SalesOverTime, 4)
	assert.Equal(t, []PeriodBucket{
		{PeriodEnd: "2024-01-07", QuantitySum: 5},
		{PeriodEnd: "2024-01-14", QuantitySum: 0},
		{PeriodEnd: "2024-01-21", QuantitySum: 0},
		{PeriodEnd: "2024-01-28", QuantitySum: 3},
	}, s.SalesOverTime)
	assert.Equal(t, 8, s.TotalSalesCount)
	assert.True(t, s.AverageSalesPerPeriod.Equal(decimal.NewFromInt(2)), s.AverageSalesPerPeriod.String())
}

func TestAggregateWeekEndsOnSunday(t *testing.T) {
	// 2024-01-07 is a Sunday and closes its own week.
	s := Aggregate([]SalesEvent{event("2024-01-07", 1), event("2024-01-08", 1)}, PeriodWeek)

	require.Len(t, s.SalesOverTime, 2)
	assert.Equal(t, "2024-01-07", s.SalesOverTime[0].PeriodEnd)
	assert.Equal(t, "2024-01-14", s.SalesOverTime[1].PeriodEnd)
}

func TestAggregateUnorderedInput(t *testing.T) {
	events := []SalesEvent{event("2024-01-22", 3), event("2024-01-01", 5), event("2024-01-02", 2)}

	s := Aggregate(events, PeriodWeek)

	require.Len(t, s.SalesOverTime, 4)
	assert.Equal(t, 7, s.SalesOverTime[0].QuantitySum)
	assert.Equal(t, 10, s.TotalSalesCount)
}

func TestAggregatePeriods(t *testing.T) {
	tests := []struct {
		name    string
		period  Period
		events  []SalesEvent
		buckets []string
	}{
		{
			name:    "daily",
			period:  PeriodDay,
			events:  []SalesEvent{event("2024-03-01", 1), event("2024-03-03", 2)},
			buckets: []string{"2024-03-01", "2024-03-02", "2024-03-03"},
		},
		{
			name:    "monthly across leap february",
			period:  PeriodMonth,
			events:  []SalesEvent{event("2024-01-15", 1), event("2024-03-02", 2)},
			buckets: []string{"2024-01-31", "2024-02-29", "2024-03-31"},
		},
		{
			name:    "quarterly",
			period:  PeriodQuarter,
			events:  []SalesEvent{event("2024-02-10", 1), event("2024-08-01", 1)},
			buckets: []string{"2024-03-31", "2024-06-30", "2024-09-30"},
		},
		{
			name:    "yearly",
			period:  PeriodYear,
			events:  []SalesEvent{event("2023-06-10", 4), event("2024-01-01", 1)},
			buckets: []string{"2023-12-31", "2024-12-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Aggregate(tt.events, tt.period)

			ends := make([]string, 0, len(s.SalesOverTime))
			for _, b := range s.SalesOverTime {
				ends = append(ends, b.PeriodEnd)
			}
			assert.Equal(t, tt.buckets, ends)
			assert.Equal(t, s.TotalSalesCount, bucketSum(s))
		})
	}
}

func TestAggregateBucketSumMatchesTotal(t *testing.T) {
	start := day("2023-11-03")
	var events []SalesEvent
	for i := 0; i < 60; i++ {
		events = append(events, SalesEvent{
			Timestamp: start.Add(time.Duration(i*37) * time.Hour),
			Quantity:  (i * 7) % 11,
		})
	}

	for _, p := range []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear} {
		s := Aggregate(events, p)
		want := 0
		for _, e := range events {
			want += e.Quantity
		}
		assert.Equal(t, want, s.TotalSalesCount, p)
		assert.Equal(t, want, bucketSum(s), p)
	}
}

func TestAggregateAverageRounding(t *testing.T) {
	events := []SalesEvent{event("2024-01-01", 10), event("2024-01-15", 0)}

	s := Aggregate(events, PeriodWeek)

	require.Len(t, s.SalesOverTime, 3)
	assert.Equal(t, "3.33", s.AverageSalesPerPeriod.String())
}

func TestAggregateIsIdempotent(t *testing.T) {
	events := []SalesEvent{event("2024-01-01", 5), event("2024-02-13", 8)}

	assert.Equal(t, Aggregate(events, PeriodWeek), Aggregate(events, PeriodWeek))
}

func TestFilterByDateRange(t *testing.T) {
	events := []SalesEvent{
		event("2024-01-01", 1),
		event("2024-01-10", 2),
		{Timestamp: day("2024-01-20").Add(23 * time.Hour), Quantity: 3},
		event("2024-01-21", 4),
	}

	t.Run("inclusive bounds", func(t *testing.T) {
		got := FilterByDateRange(events, DateRange{Start: "2024-01-10", End: "2024-01-20"})
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].Quantity)
		assert.Equal(t, 3, got[1].Quantity)
	})

	t.Run("single bound is ignored", func(t *testing.T) {
		assert.Len(t, FilterByDateRange(events, DateRange{Start: "2024-01-10"}), 4)
		assert.Len(t, FilterByDateRange(events, DateRange{End: "2024-01-10"}), 4)
	})

	t.Run("aggregate range", func(t *testing.T) {
		s := AggregateRange(events, PeriodWeek, DateRange{Start: "2024-01-02", End: "2024-01-31"})
		assert.Equal(t, 9, s.TotalSalesCount)
	})
}

func TestParsePeriod(t *testing.T) {
	for raw, want := range map[string]Period{
		"":        PeriodWeek,
		"w":       PeriodWeek,
		"D":       PeriodDay,
		"month":   PeriodMonth,
		"Quarter": PeriodQuarter,
		"Y":       PeriodYear,
	} {
		got, err := ParsePeriod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParsePeriod("fortnight")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestEventsFromSales(t *testing.T) {
	sales := []domain.Sale{
		{SaleDate: day("2024-01-01"), QuantitySold: 2},
		{SaleDate: day("2024-01-03"), QuantitySold: 5},
	}

	events := EventsFromSales(sales)

	require.Len(t, events, 2)
	assert.Equal(t, 5, events[1].Quantity)
}
