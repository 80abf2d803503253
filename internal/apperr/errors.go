// Package apperr defines the error taxonomy shared by the auth and query
// paths, plus the mapping from core errors to HTTP status codes so handlers
// stay free of case-by-case status logic.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// Authorization failures. Surfaced to the caller, never retried.
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("token is malformed or has an invalid signature")
	ErrMissingClaims      = errors.New("token payload is missing username or role")
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrAccessDenied means the caller's role lacks permission for an
	// administrative action.
	ErrAccessDenied = errors.New("access denied for this role")

	// ErrUserExists is returned on duplicate username at user creation.
	ErrUserExists = errors.New("user already exists")
)

// IsAuthError reports whether err belongs to the authorization family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrMissingClaims) ||
		errors.Is(err, ErrInvalidCredentials)
}

// Status maps a core error to the HTTP status the gateway should emit.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
