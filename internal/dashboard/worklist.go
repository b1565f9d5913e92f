package dashboard

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const worklistCap = 5

// Worklist classifies orders by end date: expired when the end date is
// today or earlier, expiring soon when it falls within the next ten days.
// Orders without an end date are skipped. Rows are ascending by end date
// and capped at five; the counts cover every match.
func Worklist(now time.Time, orders []entity.Order) entity.ExpiryWorklist {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, expiringWindow)

	var rows []entity.ExpiryRow
	for i := range orders {
		o := &orders[i]
		if o.EndDate == nil {
			continue
		}
		end := o.EndDate
		endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, today.Location())
		if endDay.After(cutoff) {
			continue
		}
		status := entity.ExpiryStatusExpiringSoon
		if !endDay.After(today) {
			status = entity.ExpiryStatusExpired
		}
		rows = append(rows, entity.ExpiryRow{
			OrderID:     o.ID,
			ClientName:  o.ClientName,
			ServiceName: o.ServiceName,
			EndDate:     endDay,
			Status:      status,
			DaysLeft:    int(endDay.Sub(today).Hours() / 24),
		})
	}

	slices.SortStableFunc(rows, func(a, b entity.ExpiryRow) int {
		return a.EndDate.Compare(b.EndDate)
	})

	w := entity.ExpiryWorklist{Total: len(rows)}
	for i := range rows {
		if rows[i].Status == entity.ExpiryStatusExpired {
			w.Expired++
		}
	}
	if len(rows) > worklistCap {
		rows = rows[:worklistCap]
	}
	w.Rows = rows
	return w
}
