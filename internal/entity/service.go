package entity

import "time"

type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
	ServiceStatusPaused   ServiceStatus = "paused"
)

var ValidServiceStatuses = map[ServiceStatus]bool{
	ServiceStatusActive:   true,
	ServiceStatusInactive: true,
	ServiceStatusPaused:   true,
}

// Service represents the services table. A service with HasExpiration set
// requires an end date on every order that references it.
type Service struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Status        ServiceStatus `db:"status" json:"status"`
	HasExpiration bool          `db:"has_expiration" json:"hasExpiration"`
	Image         string        `db:"image" json:"image"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

type ServiceInsert struct {
	Name          string        `json:"name" valid:"required"`
	Status        ServiceStatus `json:"status" valid:"in(active|inactive|paused)"`
	HasExpiration bool          `json:"hasExpiration" valid:"-"`
	Image         string        `json:"image" valid:"url,optional"`
}
