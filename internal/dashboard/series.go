package dashboard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const revenueSeriesCap = 6

type bucket struct {
	key     int
	label   string
	revenue decimal.Decimal
	orders  int
}

// RevenueSeries groups orders by calendar month and year of the start date.
// The label drops the year, but the grouping key keeps it: the same month
// name from different years stays in separate buckets. Output is ascending
// by key, truncated to the most recent six buckets.
func RevenueSeries(orders []entity.Order) []entity.RevenuePoint {
	buckets := collect(orders, func(t time.Time) (int, string) {
		return t.Year()*100 + int(t.Month()), t.Month().String()[:3]
	})
	buckets = tail(buckets, revenueSeriesCap)

	out := make([]entity.RevenuePoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, entity.RevenuePoint{
			Month:   b.label,
			Revenue: b.revenue,
			Orders:  b.orders,
		})
	}
	return out
}

// OrdersOverTime buckets orders by start date at the requested granularity.
// Day series keep the most recent 30 buckets, week and month series the
// most recent 12.
func OrdersOverTime(orders []entity.Order, g entity.Granularity) []entity.SeriesPoint {
	var key func(time.Time) (int, string)
	limit := 12
	switch g {
	case entity.GranularityDay:
		limit = 30
		key = func(t time.Time) (int, string) {
			return t.Year()*10000 + int(t.Month())*100 + t.Day(), t.Format("Jan 2")
		}
	case entity.GranularityWeek:
		key = func(t time.Time) (int, string) {
			wk := weekOfYear(t)
			return t.Year()*100 + wk, fmt.Sprintf("W%d %d", wk, t.Year())
		}
	default:
		key = func(t time.Time) (int, string) {
			return t.Year()*100 + int(t.Month()), t.Format("Jan 2006")
		}
	}

	buckets := tail(collect(orders, key), limit)
	out := make([]entity.SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, entity.SeriesPoint{
			Label:   b.label,
			Orders:  b.orders,
			Revenue: b.revenue,
		})
	}
	return out
}

// collect accumulates per-bucket revenue and order counts, skipping orders
// without a start date, and returns the buckets ascending by key.
func collect(orders []entity.Order, key func(time.Time) (int, string)) []bucket {
	byKey := make(map[int]*bucket)
	for i := range orders {
		o := &orders[i]
		if o.StartDate.IsZero() {
			continue
		}
		k, label := key(o.StartDate)
		b, ok := byKey[k]
		if !ok {
			b = &bucket{key: k, label: label}
			byKey[k] = b
		}
		b.revenue = b.revenue.Add(o.Price)
		b.orders++
	}

	out := make([]bucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b bucket) int { return a.key - b.key })
	return out
}

func tail(buckets []bucket, n int) []bucket {
	if len(buckets) > n {
		return buckets[len(buckets)-n:]
	}
	return buckets
}

// weekOfYear numbers weeks from Jan 1 of the date's year, anchored to
// Monday as week start.
func weekOfYear(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	offset := (int(jan1.Weekday()) + 6) % 7 // Monday = 0
	return (t.YearDay()-1+offset)/7 + 1
}
