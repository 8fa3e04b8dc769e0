package domain

import "time"

// Customer is a subscriber whose installation or service a ticket concerns.
type Customer struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	PackageID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServicePackage is a subscription plan referenced by tickets and customers.
type ServicePackage struct {
	ID          string
	Name        string
	SpeedMbps   int
	MonthlyFee  int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Description string
}
