package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/shopspring/decimal"
)

// Period is the calendar unit used to bucket sales.
type Period string

const (
	PeriodDay     Period = "D"
	PeriodWeek    Period = "W"
	PeriodMonth   Period = "M"
	PeriodQuarter Period = "Q"
	PeriodYear    Period = "Y"
)

var periodAliases = map[string]Period{
	"d": PeriodDay, "day": PeriodDay, "daily": PeriodDay,
	"w": PeriodWeek, "week": PeriodWeek, "weekly": PeriodWeek,
	"m": PeriodMonth, "month": PeriodMonth, "monthly": PeriodMonth,
	"q": PeriodQuarter, "quarter": PeriodQuarter, "quarterly": PeriodQuarter,
	"y": PeriodYear, "year": PeriodYear, "yearly": PeriodYear,
}

// ParsePeriod accepts a period code or name. Empty input means weekly.
func ParsePeriod(raw string) (Period, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return PeriodWeek, nil
	}
	p, ok := periodAliases[key]
	if !ok {
		return "", fmt.Errorf("unsupported period %q: %w", raw, domain.ErrInvalidInput)
	}
	return p, nil
}

// SalesEvent is a single (timestamp, quantity) observation.
type SalesEvent struct {
	Timestamp time.Time
	Quantity  int
}

// EventsFromSales projects sale records onto sales events.
func EventsFromSales(sales []domain.Sale) []SalesEvent {
	events := make([]SalesEvent, 0, len(sales))
	for _, s := range sales {
		events = append(events, SalesEvent{Timestamp: s.SaleDate, Quantity: s.QuantitySold})
	}
	return events
}

// PeriodBucket holds the summed quantity for one period, keyed by its closing date.
type PeriodBucket struct {
	PeriodEnd   string `json:"period_end"`
	QuantitySum int    `json:"quantity_sold"`
}

type TrendSummary struct {
	SalesOverTime         []PeriodBucket  `json:"sales_over_time"`
	AverageSalesPerPeriod decimal.Decimal `json:"average_sales_per_period"`
	TotalSalesCount       int             `json:"total_sales_count"`
}

// DateRange is an inclusive pair of YYYY-MM-DD bounds. It only filters when
// both ends are set.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) active() bool {
	return r.Start != "" && r.End != ""
}

// FilterByDateRange keeps the events whose UTC calendar date falls within r.
// Dates are compared as strings.
func FilterByDateRange(events []SalesEvent, r DateRange) []SalesEvent {
	if !r.active() {
		return events
	}
	out := make([]SalesEvent, 0, len(events))
	for _, e := range events {
		day := FormatDate(e.Timestamp)
		if r.Start <= day && day <= r.End {
			out = append(out, e)
		}
	}
	return out
}

// AggregateRange filters events by r and then aggregates them.
func AggregateRange(events []SalesEvent, period Period, r DateRange) TrendSummary {
	return Aggregate(FilterByDateRange(events, r), period)
}

// Aggregate buckets events into calendar periods between the first and last
// event, including empty periods, and reports the per-period mean and the total.
func Aggregate(events []SalesEvent, period Period) TrendSummary {
	summary := TrendSummary{
		SalesOverTime:         []PeriodBucket{},
		AverageSalesPerPeriod: decimal.Zero,
	}
	if len(events) == 0 {
		return summary
	}

	sums := make(map[time.Time]int, len(events))
	var first, last time.Time
	for i, e := range events {
		end := PeriodEnd(e.Timestamp, period)
		sums[end] += e.Quantity
		summary.TotalSalesCount += e.Quantity
		if i == 0 || end.Before(first) {
			first = end
		}
		if i == 0 || end.After(last) {
			last = end
		}
	}

	for end := first; !end.After(last); end = nextPeriodEnd(end, period) {
		summary.SalesOverTime = append(summary.SalesOverTime, PeriodBucket{
			PeriodEnd:   end.Format(isoDate),
			QuantitySum: sums[end],
		})
	}

	summary.AverageSalesPerPeriod = decimal.NewFromInt(int64(summary.TotalSalesCount)).
		Div(decimal.NewFromInt(int64(len(summary.SalesOverTime)))).
		Round(2)

	return summary
}

// PeriodEnd returns the closing date (midnight UTC) of the period containing t.
// Weeks run Monday to Sunday.
func PeriodEnd(t time.Time, period Period) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodDay:
		return day
	case PeriodMonth:
		return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
	case PeriodQuarter:
		qEnd := ((int(m)-1)/3 + 1) * 3
		return time.Date(y, time.Month(qEnd)+1, 0, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		toSunday := (7 - int(day.Weekday())) % 7
		return day.AddDate(0, 0, toSunday)
	}
}

func nextPeriodEnd(end time.Time, period Period) time.Time {
	return PeriodEnd(end.AddDate(0, 0, 1), period)
}
