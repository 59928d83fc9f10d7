package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultSafetyScore = 100

// Service manages driver performance records.
type Service struct {
	repo Repository
}

// NewService builds a performance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Provision creates the initial record for a newly registered driver.
func (s *Service) Provision(ctx context.Context, driverID string) (DriverPerformance, error) {
	now := time.Now().UTC()
	record := DriverPerformance{
		ID:          uuid.NewString(),
		DriverID:    driverID,
		SafetyScore: defaultSafetyScore,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return DriverPerformance{}, err
	}
	return record, nil
}

// GetByDriver returns a driver's performance record.
func (s *Service) GetByDriver(ctx context.Context, driverID string) (DriverPerformance, error) {
	return s.repo.GetByDriver(ctx, driverID)
}

// RecordTrip accumulates a completed trip into the driver's totals.
func (s *Service) RecordTrip(ctx context.Context, driverID string, distanceKm float64) error {
	return s.repo.RecordTrip(ctx, driverID, distanceKm)
}
