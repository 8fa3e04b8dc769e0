package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lintasnet/fieldops/internal/api/dto"
	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/service"
)

// AuthHandler exposes staff authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": technicianResponse(result.Technician),
			"auth":  dto.AuthResponse{Token: result.Token},
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{"data": technicianResponse(principal.Technician)})
}

func technicianResponse(tech *domain.Technician) dto.TechnicianResponse {
	return dto.TechnicianResponse{
		ID:         tech.ID,
		EmployeeID: tech.EmployeeID,
		FullName:   tech.FullName,
		Email:      tech.Email,
		Phone:      tech.Phone,
		Role:       tech.Role,
		Active:     tech.Active,
	}
}
