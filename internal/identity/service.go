package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates a failed login attempt. The same value is
// returned for unknown emails and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages account lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a fleet owner or driver account. Drivers may link to a
// fleet owner; the link is validated before the account is created.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if len(input.Password) < 6 {
		return User{}, fmt.Errorf("password must be at least 6 characters")
	}
	if input.Role != RoleFleetOwner && input.Role != RoleDriver {
		return User{}, fmt.Errorf("role must be %s or %s", RoleFleetOwner, RoleDriver)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if input.Role == RoleDriver && input.FleetOwnerID != "" {
		owner, err := s.repo.FindByID(ctx, input.FleetOwnerID)
		if err != nil || owner.Role != RoleFleetOwner {
			return User{}, fmt.Errorf("invalid fleet owner id")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		Phone:        input.Phone,
		FleetOwnerID: input.FleetOwnerID,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ListDrivers returns the drivers linked to a fleet owner.
func (s *Service) ListDrivers(ctx context.Context, fleetOwnerID string) ([]User, error) {
	return s.repo.ListDrivers(ctx, fleetOwnerID)
}
