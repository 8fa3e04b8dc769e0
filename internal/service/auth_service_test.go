package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/config"
	"github.com/lintasnet/fieldops/internal/domain"
	apperrors "github.com/lintasnet/fieldops/pkg/util"
)

func authFixture(t *testing.T) (*AuthService, *fakeTechnicianRepo) {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse", 4)
	require.NoError(t, err)

	repo := &fakeTechnicianRepo{byID: map[string]*domain.Technician{
		"tech-1": {
			ID:           "tech-1",
			FullName:     "Agus Wijaya",
			Email:        "agus@example.com",
			PasswordHash: hash,
			Role:         domain.RoleTechnician,
			Active:       true,
		},
		"tech-2": {
			ID:           "tech-2",
			FullName:     "Dewi Lestari",
			Email:        "dewi@example.com",
			PasswordHash: hash,
			Role:         domain.RoleTechnician,
			Active:       false,
		},
	}}
	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30})
	return NewAuthService(repo, tokens), repo
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := authFixture(t)

	result, err := svc.Login(context.Background(), "agus@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "tech-1", result.Technician.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := authFixture(t)

	cases := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{name: "wrong password", email: "agus@example.com", password: "nope", wantStatus: 401},
		{name: "unknown email", email: "ghost@example.com", password: "correct-horse", wantStatus: 401},
		{name: "deactivated account", email: "dewi@example.com", password: "correct-horse", wantStatus: 403},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.wantStatus, domainErr.HTTPStatus)
		})
	}
}
