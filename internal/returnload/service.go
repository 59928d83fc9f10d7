package returnload

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInput carries the fields needed to list a return load.
type CreateInput struct {
	PostedBy    string
	Origin      string
	Destination string
	CargoType   string
	WeightTons  float64
	Price       int64
}

// Service manages the return load marketplace.
type Service struct {
	repo Repository
}

// NewService builds a return load service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Post lists a new return load as available.
func (s *Service) Post(ctx context.Context, in CreateInput) (Load, error) {
	if strings.TrimSpace(in.Origin) == "" || strings.TrimSpace(in.Destination) == "" {
		return Load{}, errors.New("origin and destination are required")
	}
	if in.Price < 0 {
		return Load{}, errors.New("price cannot be negative")
	}

	load := Load{
		ID:          uuid.NewString(),
		PostedBy:    in.PostedBy,
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		CargoType:   strings.TrimSpace(in.CargoType),
		WeightTons:  in.WeightTons,
		Price:       in.Price,
		Status:      StatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, load); err != nil {
		return Load{}, err
	}
	return load, nil
}

// Search returns open listings, optionally filtered by destination.
func (s *Service) Search(ctx context.Context, destination string) ([]Load, error) {
	return s.repo.ListAvailable(ctx, strings.TrimSpace(destination))
}

// Book claims an available load for a driver. Losing a race against another
// driver surfaces as ErrAlreadyBooked; the winner's booking stands.
func (s *Service) Book(ctx context.Context, driverID, loadID string) (Load, error) {
	if _, err := s.repo.Get(ctx, loadID); err != nil {
		return Load{}, err
	}

	applied, err := s.repo.Book(ctx, loadID, driverID, time.Now().UTC())
	if err != nil {
		return Load{}, err
	}
	if !applied {
		return Load{}, ErrAlreadyBooked
	}
	return s.repo.Get(ctx, loadID)
}
