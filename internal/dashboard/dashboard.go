// Package dashboard computes the derived metrics behind the admin panel's
// dashboard page. Everything here is a pure function of the snapshots it is
// given: no I/O, no stored state, safe to call with empty or partially
// loaded collections.
package dashboard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const (
	growthWindow   = 30 // days per revenue comparison window
	expiringWindow = 10 // days ahead counted as expiring soon
)

// Compute builds the full dashboard view from the current snapshots.
// Partial input produces zero-valued output, never an error.
func Compute(now time.Time, orders []entity.Order, services []entity.Service, clients []entity.Client, g entity.Granularity) *entity.DashboardView {
	s := summary(now, orders, services, clients)
	return &entity.DashboardView{
		Summary:        s,
		Cards:          cards(s),
		Revenue:        RevenueSeries(orders),
		Services:       Distribution(orders, services),
		Profitability:  ProfitTable(orders, services),
		OrdersOverTime: OrdersOverTime(orders, g),
		Expiry:         Worklist(now, orders),
		Granularity:    g,
		ComputedAt:     now,
	}
}

func summary(now time.Time, orders []entity.Order, services []entity.Service, clients []entity.Client) entity.Summary {
	s := entity.Summary{
		TotalRevenue:          decimal.Zero,
		TotalProfit:           decimal.Zero,
		RevenueGrowth:         decimal.Zero,
		ClientGrowthRate:      decimal.Zero,
		MostProfitableService: "N/A",
		TotalClients:          len(clients),
	}

	recentFrom := now.AddDate(0, 0, -growthWindow)
	previousFrom := now.AddDate(0, 0, -2*growthWindow)

	var recentRevenue, previousRevenue decimal.Decimal
	for i := range orders {
		o := &orders[i]
		s.TotalRevenue = s.TotalRevenue.Add(o.Price)
		s.TotalProfit = s.TotalProfit.Add(o.Profit())
		if o.Status == entity.OrderStatusActive {
			s.ActiveOrders++
		}
		if !o.StartDate.IsZero() {
			switch {
			case !o.StartDate.Before(recentFrom) && o.StartDate.Before(now):
				recentRevenue = recentRevenue.Add(o.Price)
			case !o.StartDate.Before(previousFrom) && o.StartDate.Before(recentFrom):
				previousRevenue = previousRevenue.Add(o.Price)
			}
		}
		if o.EndDate != nil && !o.EndDate.Before(recentFrom) && !o.EndDate.After(now) {
			s.CompletedOrdersThisMonth++
		}
	}

	if previousRevenue.IsPositive() {
		s.RevenueGrowth = recentRevenue.Sub(previousRevenue).
			Div(previousRevenue).Mul(decimal.NewFromInt(100)).Round(1)
	}

	for _, svc := range services {
		if svc.Status == entity.ServiceStatusActive {
			s.ActiveServices++
		}
	}

	if len(clients) > 0 {
		recent := 0
		for i := range clients {
			if !clients[i].CreatedAt.Before(recentFrom) {
				recent++
			}
		}
		s.ClientGrowthRate = decimal.NewFromInt(int64(recent)).
			Div(decimal.NewFromInt(int64(len(clients)))).
			Mul(decimal.NewFromInt(100)).Round(1)
	}

	s.MostProfitableService = mostProfitable(orders, services)
	return s
}

// mostProfitable picks the service with the strictly greatest summed profit
// over its orders. Ties keep the service first encountered in order
// iteration; no orders at all yields "N/A".
func mostProfitable(orders []entity.Order, services []entity.Service) string {
	profits := make(map[string]decimal.Decimal)
	var seen []string
	for i := range orders {
		o := &orders[i]
		if _, ok := profits[o.ServiceID]; !ok {
			seen = append(seen, o.ServiceID)
		}
		profits[o.ServiceID] = profits[o.ServiceID].Add(o.Profit())
	}
	if len(seen) == 0 {
		return "N/A"
	}

	best := seen[0]
	for _, id := range seen[1:] {
		if profits[id].GreaterThan(profits[best]) {
			best = id
		}
	}
	return serviceName(services, best)
}

func serviceName(services []entity.Service, id string) string {
	for i := range services {
		if services[i].ID == id {
			return services[i].Name
		}
	}
	return "Unknown"
}

func cards(s entity.Summary) []entity.StatCard {
	return []entity.StatCard{
		{
			Title:  "Total Revenue",
			Value:  "$" + s.TotalRevenue.Round(2).String(),
			Change: signedPercent(s.RevenueGrowth),
			Trend:  trend(s.RevenueGrowth),
		},
		{
			Title: "Total Profit",
			Value: "$" + s.TotalProfit.Round(2).String(),
		},
		{
			Title: "Active Orders",
			Value: fmt.Sprintf("%d", s.ActiveOrders),
		},
		{
			Title: "Active Services",
			Value: fmt.Sprintf("%d", s.ActiveServices),
		},
		{
			Title:  "Total Clients",
			Value:  fmt.Sprintf("%d", s.TotalClients),
			Change: signedPercent(s.ClientGrowthRate),
			Trend:  trend(s.ClientGrowthRate),
		},
		{
			Title: "Top Service",
			Value: s.MostProfitableService,
		},
	}
}

func signedPercent(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.String() + "%"
	}
	return "+" + d.String() + "%"
}

func trend(d decimal.Decimal) string {
	if d.IsNegative() {
		return "down"
	}
	return "up"
}
