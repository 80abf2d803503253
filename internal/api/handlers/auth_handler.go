package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/finsolve-tech/finsight/internal/apperr"
	appMiddleware "github.com/finsolve-tech/finsight/internal/api/middlewares"
	"github.com/finsolve-tech/finsight/internal/models"
	"github.com/finsolve-tech/finsight/internal/services"
)

type AuthHandler struct {
	auth        *services.AuthService
	tokens      *services.TokenService
	permissions *services.PermissionService
	tokenTTL    time.Duration
}

func NewAuthHandler(auth *services.AuthService, tokens *services.TokenService, perms *services.PermissionService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, permissions: perms, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	identity, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, apperr.ErrInvalidCredentials) {
		http.Error(w, apperr.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(identity.Username, identity.Role, h.tokenTTL)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    identity.Username,
		Role:        identity.Role,
		Message:     fmt.Sprintf("Welcome %s! You are logged in as %s.", identity.Username, identity.Role),
	})
}

type addUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AddUser creates a new account. The service layer enforces that only
// c-level callers succeed.
func (h *AuthHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" || req.Role == "" {
		http.Error(w, "username, password and role are required", http.StatusBadRequest)
		return
	}

	err := h.auth.AddUser(r.Context(), identity.Role, req.Username, req.Password, models.ParseRole(req.Role))
	if err != nil {
		http.Error(w, err.Error(), apperr.Status(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("User %s added successfully with role %s.", req.Username, req.Role),
	})
}

// AccessibleDepartments lists the departments the caller's role may see.
func (h *AuthHandler) AccessibleDepartments(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	depts := h.permissions.DepartmentsFor(identity.Role)
	if depts == nil {
		depts = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"accessible_data": depts})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
