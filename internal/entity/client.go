package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents the clients table. TotalOrders and TotalSpent are
// denormalized counters maintained by the store inside the same transaction
// as order writes.
type Client struct {
	ID          string          `db:"id" json:"id"`
	ClientName  string          `db:"client_name" json:"clientName"`
	ClientEmail *string         `db:"client_email" json:"clientEmail,omitempty"`
	Note        *string         `db:"note" json:"note,omitempty"`
	JoinDate    time.Time       `db:"join_date" json:"joinDate"`
	TotalOrders int             `db:"total_orders" json:"totalOrders"`
	TotalSpent  decimal.Decimal `db:"total_spent" json:"totalSpent"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

type ClientInsert struct {
	ClientName  string    `json:"clientName" valid:"required"`
	ClientEmail *string   `json:"clientEmail" valid:"email,optional"`
	Note        *string   `json:"note" valid:"-"`
	JoinDate    time.Time `json:"joinDate" valid:"-"`
}
