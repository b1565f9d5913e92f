package entity

import "time"

// PaymentMethod represents the payment_methods table. ExampleLast4 is
// display-only, shown on the payment methods page.
type PaymentMethod struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Logo         string    `db:"logo" json:"logo"`
	Description  *string   `db:"description" json:"description,omitempty"`
	ExampleLast4 string    `db:"example_last4" json:"exampleLast4"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type PaymentMethodInsert struct {
	Name         string  `json:"name" valid:"required"`
	Logo         string  `json:"logo" valid:"url,optional"`
	Description  *string `json:"description" valid:"-"`
	ExampleLast4 string  `json:"exampleLast4" valid:"matches(^[0-9]{4}$),optional"`
}
