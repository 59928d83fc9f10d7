package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/transops/transops/internal/cache"
	"github.com/transops/transops/internal/performance"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

// OwnerStats is the fleet owner dashboard rollup.
type OwnerStats struct {
	TotalTrips    int   `json:"total_trips"`
	ActiveTrips   int   `json:"active_trips"`
	TotalExpenses int64 `json:"total_expenses"`
	TotalVehicles int   `json:"total_vehicles"`
	TotalDrivers  int   `json:"total_drivers"`
}

// DriverStats is the driver dashboard rollup.
type DriverStats struct {
	TotalTrips    int   `json:"total_trips"`
	ActiveTrips   int   `json:"active_trips"`
	TotalExpenses int64 `json:"total_expenses"`
	WalletBalance int64 `json:"wallet_balance"`
	RewardPoints  int64 `json:"reward_points"`
}

// TripLister is the slice of the trip store the dashboard reads.
type TripLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]trip.Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]trip.Trip, error)
}

// FleetCounter counts a fleet owner's assets.
type FleetCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// DriverCounter counts an owner's registered drivers.
type DriverCounter interface {
	CountDrivers(ctx context.Context, ownerID string) (int, error)
}

// WalletReader reads a driver's wallet.
type WalletReader interface {
	GetByDriver(ctx context.Context, driverID string) (wallet.Wallet, error)
}

// PerformanceReader reads a driver's performance record.
type PerformanceReader interface {
	GetByDriver(ctx context.Context, driverID string) (performance.DriverPerformance, error)
}

// Service computes dashboard rollups. Snapshots are cached briefly in Redis;
// stats are advisory reads and may lag live postings by up to the TTL.
type Service struct {
	trips       TripLister
	vehicles    FleetCounter
	drivers     DriverCounter
	wallets     WalletReader
	performance PerformanceReader
	snapshots   *cache.Cache
	ttl         time.Duration
	logger      *slog.Logger
}

// NewService builds a dashboard service.
func NewService(trips TripLister, vehicles FleetCounter, drivers DriverCounter,
	wallets WalletReader, perf PerformanceReader, snapshots *cache.Cache,
	ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		trips:       trips,
		vehicles:    vehicles,
		drivers:     drivers,
		wallets:     wallets,
		performance: perf,
		snapshots:   snapshots,
		ttl:         ttl,
		logger:      logger,
	}
}

// OwnerStats aggregates the fleet owner's rollup.
func (s *Service) OwnerStats(ctx context.Context, ownerID string) (OwnerStats, error) {
	key := "dashboard:owner:" + ownerID

	var cached OwnerStats
	if err := s.snapshots.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) && s.logger != nil {
		s.logger.Warn("dashboard cache read failed", "key", key, "error", err)
	}

	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return OwnerStats{}, err
	}

	stats := OwnerStats{TotalTrips: len(trips)}
	for _, t := range trips {
		if t.Status == trip.StatusInProgress {
			stats.ActiveTrips++
		}
		stats.TotalExpenses += t.TotalExpenses
	}

	if stats.TotalVehicles, err = s.vehicles.CountByOwner(ctx, ownerID); err != nil {
		return OwnerStats{}, err
	}
	if stats.TotalDrivers, err = s.drivers.CountDrivers(ctx, ownerID); err != nil {
		return OwnerStats{}, err
	}

	if err := s.snapshots.SetJSON(ctx, key, stats, s.ttl); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", "key", key, "error", err)
	}
	return stats, nil
}

// DriverStats aggregates the driver's rollup.
func (s *Service) DriverStats(ctx context.Context, driverID string) (DriverStats, error) {
	key := "dashboard:driver:" + driverID

	var cached DriverStats
	if err := s.snapshots.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) && s.logger != nil {
		s.logger.Warn("dashboard cache read failed", "key", key, "error", err)
	}

	trips, err := s.trips.ListByDriver(ctx, driverID)
	if err != nil {
		return DriverStats{}, err
	}

	stats := DriverStats{TotalTrips: len(trips)}
	for _, t := range trips {
		if t.Status == trip.StatusInProgress {
			stats.ActiveTrips++
		}
		stats.TotalExpenses += t.TotalExpenses
	}

	w, err := s.wallets.GetByDriver(ctx, driverID)
	switch {
	case err == nil:
		stats.WalletBalance = w.Balance
	case errors.Is(err, wallet.ErrNotFound):
		// Drivers registered before wallet provisioning show a zero balance.
	default:
		return DriverStats{}, err
	}

	record, err := s.performance.GetByDriver(ctx, driverID)
	switch {
	case err == nil:
		stats.RewardPoints = record.RewardPoints
	case errors.Is(err, performance.ErrNotFound):
	default:
		return DriverStats{}, err
	}

	if err := s.snapshots.SetJSON(ctx, key, stats, s.ttl); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", "key", key, "error", err)
	}
	return stats, nil
}
