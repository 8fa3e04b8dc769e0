package dto

import "github.com/lintasnet/fieldops/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token string `json:"token"`
}

// TechnicianResponse is the public view of a staff member.
type TechnicianResponse struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employeeId"`
	FullName   string           `json:"fullName"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Role       domain.ActorRole `json:"role"`
	Active     bool             `json:"active"`
}
