package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service exposes wallet lifecycle and administration operations.
type Service struct {
	repo     Repository
	defaults Limits
}

// NewService builds a wallet service. defaults seeds category limits on
// newly provisioned wallets.
func NewService(repo Repository, defaults Limits) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Repository exposes the underlying store for collaborators that need the
// conditional balance primitive.
func (s *Service) Repository() Repository {
	return s.repo
}

// Provision creates a zero-balance wallet for a newly registered driver.
func (s *Service) Provision(ctx context.Context, driverID string) (Wallet, error) {
	w := Wallet{
		ID:        uuid.NewString(),
		DriverID:  driverID,
		Balance:   0,
		Limits:    s.defaults,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// GetByDriver retrieves the wallet owned by the given driver.
func (s *Service) GetByDriver(ctx context.Context, driverID string) (Wallet, error) {
	return s.repo.GetByDriver(ctx, driverID)
}

// UpdateLimits applies a partial limits update and returns the new wallet state.
func (s *Service) UpdateLimits(ctx context.Context, driverID string, patch LimitsPatch) (Wallet, error) {
	if patch.Empty() {
		return s.repo.GetByDriver(ctx, driverID)
	}
	return s.repo.UpdateLimits(ctx, driverID, patch)
}
