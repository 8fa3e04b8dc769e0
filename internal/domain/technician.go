package domain

import "time"

// Technician models a field engineer in the staff directory.
type Technician struct {
	ID           string
	EmployeeID   string
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         ActorRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
