package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lintasnet/fieldops/internal/config"
	"github.com/lintasnet/fieldops/internal/domain"
)

// Claims carries the authenticated subject inside a JWT.
type Claims struct {
	SubjectID string           `json:"sub_id"`
	Role      domain.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs the manager from auth config.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	ttl := time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(cfg.JWTSecret), ttl: ttl}
}

// IssueToken creates a signed access token for a staff member.
func (t *TokenManager) IssueToken(tech *domain.Technician) (string, error) {
	now := time.Now()
	claims := Claims{
		SubjectID: tech.ID,
		Role:      tech.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tech.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseToken validates a raw token and returns its claims.
func (t *TokenManager) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
