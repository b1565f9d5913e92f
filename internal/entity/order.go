package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var ValidOrderStatuses = map[OrderStatus]bool{
	OrderStatusActive:    true,
	OrderStatusExpired:   true,
	OrderStatusCancelled: true,
}

// Order represents the orders table. ServiceName, ClientName and
// PaymentMethod are not stored on the row; the store resolves them at read
// time from the referenced collections.
type Order struct {
	ID              string          `db:"id" json:"id"`
	ClientID        string          `db:"client_id" json:"clientId"`
	ServiceID       string          `db:"service_id" json:"serviceId"`
	PaymentMethodID string          `db:"payment_method_id" json:"paymentMethodId"`
	StartDate       time.Time       `db:"start_date" json:"startDate"`
	EndDate         *time.Time      `db:"end_date" json:"endDate,omitempty"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Cost            decimal.Decimal `db:"cost" json:"cost"`
	Status          OrderStatus     `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`

	ServiceName   string `db:"service_name" json:"serviceName"`
	ClientName    string `db:"client_name" json:"clientName"`
	PaymentMethod string `db:"payment_method" json:"paymentMethod"`
}

// Profit is derived, never stored.
func (o *Order) Profit() decimal.Decimal {
	return o.Price.Sub(o.Cost)
}

type OrderInsert struct {
	ClientID        string          `json:"clientId" valid:"required"`
	ServiceID       string          `json:"serviceId" valid:"required"`
	PaymentMethodID string          `json:"paymentMethodId" valid:"required"`
	StartDate       time.Time       `json:"startDate" valid:"-"`
	EndDate         *time.Time      `json:"endDate" valid:"-"`
	Price           decimal.Decimal `json:"price" valid:"-"`
	Cost            decimal.Decimal `json:"cost" valid:"-"`
	Status          OrderStatus     `json:"status" valid:"in(active|expired|cancelled)"`
}
