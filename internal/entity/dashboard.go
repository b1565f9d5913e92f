package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity controls time bucket size for the orders-over-time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a query string value to a Granularity, defaulting
// to month.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityDay:
		return GranularityDay
	case GranularityWeek:
		return GranularityWeek
	default:
		return GranularityMonth
	}
}

// DashboardView is the full view-model bundle recomputed on every snapshot
// change and pushed to the admin panel.
type DashboardView struct {
	Summary        Summary            `json:"summary"`
	Cards          []StatCard         `json:"cards"`
	Revenue        []RevenuePoint     `json:"revenue"`
	Services       []ServiceShare     `json:"services"`
	Profitability  []ServiceProfitRow `json:"profitability"`
	OrdersOverTime []SeriesPoint      `json:"ordersOverTime"`
	Expiry         ExpiryWorklist     `json:"expiry"`
	Granularity    Granularity        `json:"granularity"`
	ComputedAt     time.Time          `json:"computedAt"`
}

// Summary is the fixed set of headline metrics.
type Summary struct {
	TotalRevenue             decimal.Decimal `json:"totalRevenue"`
	TotalProfit              decimal.Decimal `json:"totalProfit"`
	ActiveOrders             int             `json:"activeOrders"`
	ActiveServices           int             `json:"activeServices"`
	TotalClients             int             `json:"totalClients"`
	RevenueGrowth            decimal.Decimal `json:"revenueGrowth"`
	ClientGrowthRate         decimal.Decimal `json:"clientGrowthRate"`
	MostProfitableService    string          `json:"mostProfitableService"`
	CompletedOrdersThisMonth int             `json:"completedOrdersThisMonth"`
}

// StatCard mirrors the stat cards row on the dashboard page.
type StatCard struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"` // up or down
}

// RevenuePoint is one month bucket of the revenue chart. The label carries
// the month name only; buckets from different years stay distinct.
type RevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// ServiceShare is one slice of the service distribution chart.
type ServiceShare struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// ServiceProfitRow is one row of the per-service profitability table.
// PercentReturn is nil when the service has no cost basis; the panel
// renders a dash for it.
type ServiceProfitRow struct {
	ServiceID     string           `json:"serviceId"`
	Name          string           `json:"name"`
	Revenue       decimal.Decimal  `json:"revenue"`
	Cost          decimal.Decimal  `json:"cost"`
	Profit        decimal.Decimal  `json:"profit"`
	PercentReturn *decimal.Decimal `json:"percentReturn"`
}

// SeriesPoint is one bucket of the orders-over-time chart.
type SeriesPoint struct {
	Label   string          `json:"label"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ExpiryStatus string

const (
	ExpiryStatusExpired      ExpiryStatus = "expired"
	ExpiryStatusExpiringSoon ExpiryStatus = "expiring_soon"
)

// ExpiryRow is one entry of the expiring/expired orders worklist.
type ExpiryRow struct {
	OrderID     string       `json:"orderId"`
	ClientName  string       `json:"clientName"`
	ServiceName string       `json:"serviceName"`
	EndDate     time.Time    `json:"endDate"`
	Status      ExpiryStatus `json:"status"`
	DaysLeft    int          `json:"daysLeft"`
}

// ExpiryWorklist carries at most five rendered rows plus the full match
// counts driving the notification line.
type ExpiryWorklist struct {
	Rows    []ExpiryRow `json:"rows"`
	Total   int         `json:"total"`
	Expired int         `json:"expired"`
}

// Notifications returns plural-aware notification lines, one per matching
// category, empty when nothing needs attention.
func (w ExpiryWorklist) Notifications() []string {
	var out []string
	if w.Expired == 1 {
		out = append(out, "1 order is expired")
	} else if w.Expired > 1 {
		out = append(out, fmt.Sprintf("%d orders are expired", w.Expired))
	}
	if soon := w.Total - w.Expired; soon == 1 {
		out = append(out, "1 order is expiring soon")
	} else if soon > 1 {
		out = append(out, fmt.Sprintf("%d orders are expiring soon", soon))
	}
	return out
}
