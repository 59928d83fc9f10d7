package vehicle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInput carries the fields needed to register a vehicle.
type CreateInput struct {
	OwnerID      string
	Registration string
	Model        string
	CapacityTons float64
}

// Service manages fleet vehicles.
type Service struct {
	repo Repository
}

// NewService builds a vehicle service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register adds a vehicle to the owner's fleet, starting available.
func (s *Service) Register(ctx context.Context, in CreateInput) (Vehicle, error) {
	registration := strings.ToUpper(strings.TrimSpace(in.Registration))
	if registration == "" {
		return Vehicle{}, errors.New("registration number is required")
	}
	if in.CapacityTons < 0 {
		return Vehicle{}, errors.New("capacity cannot be negative")
	}

	v := Vehicle{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		Registration: registration,
		Model:        strings.TrimSpace(in.Model),
		CapacityTons: in.CapacityTons,
		Status:       StatusAvailable,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// ListByOwner returns the owner's fleet.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Vehicle, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches a vehicle by identifier.
func (s *Service) Get(ctx context.Context, id string) (Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// SetStatus moves a vehicle between available, in_use and maintenance.
func (s *Service) SetStatus(ctx context.Context, ownerID, id, status string) (Vehicle, error) {
	switch status {
	case StatusAvailable, StatusInUse, StatusMaintenance:
	default:
		return Vehicle{}, errors.New("invalid vehicle status")
	}

	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	if v.OwnerID != ownerID {
		return Vehicle{}, ErrNotFound
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Vehicle{}, err
	}
	v.Status = status
	return v, nil
}
