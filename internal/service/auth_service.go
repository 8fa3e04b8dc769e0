package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/repository"
	apperrors "github.com/lintasnet/fieldops/pkg/util"
)

// AuthService authenticates staff and issues access tokens.
type AuthService struct {
	technicians repository.TechnicianRepository
	tokens      *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(technicians repository.TechnicianRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{technicians: technicians, tokens: tokens}
}

// LoginResult carries the issued token and the authenticated staff member.
type LoginResult struct {
	Token      string
	Technician *domain.Technician
}

// Login verifies staff credentials. Unknown emails and wrong passwords
// produce the same error so the endpoint does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	tech, err := s.technicians.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !tech.Active {
		return nil, apperrors.NewForbidden("account deactivated")
	}
	if !auth.CheckPassword(tech.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokens.IssueToken(tech)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, Technician: tech}, nil
}
