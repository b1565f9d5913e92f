package dashboard

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const distributionCap = 5

// palette colors the distribution chart slices by rank index, cycling when
// there are more slices than colors.
var palette = [6]string{"#E50914", "#10A37F", "#00C4CC", "#1DB954", "#8B5CF6", "#6B7280"}

// Distribution counts orders per service and returns the top five by
// count. Services without orders never appear; an order whose service no
// longer exists is shown as "Unknown".
func Distribution(orders []entity.Order, services []entity.Service) []entity.ServiceShare {
	counts := make(map[string]int)
	var seen []string
	for i := range orders {
		id := orders[i].ServiceID
		if _, ok := counts[id]; !ok {
			seen = append(seen, id)
		}
		counts[id]++
	}

	slices.SortStableFunc(seen, func(a, b string) int { return counts[b] - counts[a] })
	if len(seen) > distributionCap {
		seen = seen[:distributionCap]
	}

	out := make([]entity.ServiceShare, 0, len(seen))
	for i, id := range seen {
		out = append(out, entity.ServiceShare{
			Name:  serviceName(services, id),
			Count: counts[id],
			Color: palette[i%len(palette)],
		})
	}
	return out
}

// ProfitTable sums revenue and cost per service. Rows with neither revenue
// nor cost are omitted; percent return is only defined with a positive
// cost basis.
func ProfitTable(orders []entity.Order, services []entity.Service) []entity.ServiceProfitRow {
	type sums struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
	}
	byService := make(map[string]*sums, len(services))
	for i := range services {
		byService[services[i].ID] = &sums{}
	}
	for i := range orders {
		o := &orders[i]
		s, ok := byService[o.ServiceID]
		if !ok {
			continue
		}
		s.revenue = s.revenue.Add(o.Price)
		s.cost = s.cost.Add(o.Cost)
	}

	out := make([]entity.ServiceProfitRow, 0, len(services))
	for i := range services {
		svc := &services[i]
		s := byService[svc.ID]
		if s.revenue.IsZero() && s.cost.IsZero() {
			continue
		}
		row := entity.ServiceProfitRow{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Revenue:   s.revenue,
			Cost:      s.cost,
			Profit:    s.revenue.Sub(s.cost),
		}
		if s.cost.IsPositive() {
			pr := row.Profit.Div(s.cost).Mul(decimal.NewFromInt(100)).Round(1)
			row.PercentReturn = &pr
		}
		out = append(out, row)
	}
	return out
}
