package performance

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]DriverPerformance // keyed by driver id
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]DriverPerformance)}
}

func (r *memoryRepository) Create(_ context.Context, record DriverPerformance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[record.DriverID] = record
	return nil
}

func (r *memoryRepository) GetByDriver(_ context.Context, driverID string) (DriverPerformance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.storage[driverID]
	if !ok {
		return DriverPerformance{}, ErrNotFound
	}
	return record, nil
}

func (r *memoryRepository) RecordTrip(_ context.Context, driverID string, distanceKm float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.storage[driverID]
	if !ok {
		return ErrNotFound
	}
	record.TotalTrips++
	record.TotalDistanceKm += distanceKm
	record.UpdatedAt = time.Now().UTC()
	r.storage[driverID] = record
	return nil
}
