package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finsolve-tech/finsight/internal/apperr"
	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
)

// AuthService owns credential verification and user creation.
type AuthService struct {
	db core.DbClient
}

func NewAuthService(db core.DbClient) *AuthService {
	return &AuthService{db: db}
}

// Authenticate verifies username/password and returns the stored identity.
// Any mismatch, including an unknown username, yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("authentication failed for username: %s", username)
		return nil, apperr.ErrInvalidCredentials
	}
	return &models.Identity{Username: user.Username, Role: user.Role}, nil
}

// AddUser creates a new user. Only the c-level role may call it; a duplicate
// username fails with ErrUserExists.
func (s *AuthService) AddUser(ctx context.Context, callerRole models.Role, username, password string, role models.Role) error {
	if callerRole != models.RoleCLevel {
		return apperr.ErrAccessDenied
	}

	existing, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return apperr.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Printf("added user %s with role %s", username, role)
	return nil
}

// seedUser is one reference deployment account.
type seedUser struct {
	Username string
	Password string
	Role     models.Role
}

func referenceUsers() []seedUser {
	return []seedUser{
		{"peter", "finance123", models.RoleFinance},
		{"jane", "marketing456", models.RoleMarketing},
		{"alice", "hr789", models.RoleHR},
		{"bob", "eng101", models.RoleEngineering},
		{"tony", "exec2023", models.RoleCLevel},
		{"emma", "emp303", models.RoleEmployee},
	}
}

// SeedUsers creates the reference accounts if they do not exist. Idempotent;
// an already-seeded database is left untouched.
func (s *AuthService) SeedUsers(ctx context.Context) error {
	for _, su := range referenceUsers() {
		existing, err := s.db.GetUserByUsername(ctx, su.Username)
		if err != nil {
			return fmt.Errorf("seed lookup %s: %w", su.Username, err)
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed hash %s: %w", su.Username, err)
		}
		user := &models.User{
			ID:           uuid.NewString(),
			Username:     su.Username,
			PasswordHash: string(hash),
			Role:         su.Role,
			CreatedAt:    time.Now(),
		}
		if err := s.db.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed create %s: %w", su.Username, err)
		}
		log.Printf("seeded user %s (%s)", su.Username, su.Role)
	}
	return nil
}
