package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finsolve-tech/finsight/internal/apperr"
	"github.com/finsolve-tech/finsight/internal/models"
)

const testSecret = "test-signing-key"

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("peter", models.RoleFinance, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Username != "peter" || identity.Role != models.RoleFinance {
		t.Errorf("identity = %+v, want peter/finance", identity)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	// Sign an already-expired token with the same key.
	claims := identityClaims{
		Role: "finance",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "peter",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, apperr.ErrTokenExpired) {
		t.Errorf("verify expired token: got %v, want ErrTokenExpired", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, apperr.ErrTokenMalformed) {
		t.Errorf("garbage token: got %v, want ErrTokenMalformed", err)
	}

	other := NewTokenService("different-key", time.Hour)
	token, err := other.Issue("peter", models.RoleFinance, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, apperr.ErrTokenMalformed) {
		t.Errorf("wrong-key token: got %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_MissingClaims(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	// Valid signature and expiry, but no role claim.
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "peter",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, apperr.ErrMissingClaims) {
		t.Errorf("roleless token: got %v, want ErrMissingClaims", err)
	}
}

func TestIssue_DefaultTTL(t *testing.T) {
	svc := NewTokenService(testSecret, 30*time.Minute)

	token, err := svc.Issue("jane", models.RoleMarketing, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("token with default ttl should verify: %v", err)
	}
}
