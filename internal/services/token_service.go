package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finsolve-tech/finsight/internal/apperr"
	"github.com/finsolve-tech/finsight/internal/models"
)

// identityClaims carries the subject (username) and role claims.
type identityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bound identity assertions.
// Tokens are stateless; there is no revocation list, logout is client-side
// token discard.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Minute
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue creates a signed token for (username, role) expiring after ttl.
// ttl <= 0 uses the service default.
func (s *TokenService) Issue(username string, role models.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	claims := identityClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the embedded identity.
// Both username and role must be present; a token that verifies but lacks
// either claim fails with ErrMissingClaims rather than yielding a partial
// identity.
func (s *TokenService) Verify(tokenStr string) (*models.Identity, error) {
	claims := &identityClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrTokenMalformed
	}
	if !tok.Valid {
		return nil, apperr.ErrTokenMalformed
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, apperr.ErrMissingClaims
	}
	return &models.Identity{
		Username: claims.Subject,
		Role:     models.ParseRole(claims.Role),
	}, nil
}
