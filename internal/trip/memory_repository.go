package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Trip
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Trip)}
}

func (r *memoryRepository) Create(_ context.Context, t Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[t.ID] = t
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.storage[id]
	if !ok {
		return Trip{}, ErrNotFound
	}
	return t, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, fleetOwnerID string) ([]Trip, error) {
	return r.filter(func(t Trip) bool { return t.FleetOwnerID == fleetOwnerID }), nil
}

func (r *memoryRepository) ListByDriver(_ context.Context, driverID string) ([]Trip, error) {
	return r.filter(func(t Trip) bool { return t.DriverID == driverID }), nil
}

func (r *memoryRepository) filter(keep func(Trip) bool) []Trip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var trips []Trip
	for _, t := range r.storage {
		if keep(t) {
			trips = append(trips, t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].CreatedAt.After(trips[j].CreatedAt) })
	return trips
}

func (r *memoryRepository) AddExpenseTotal(_ context.Context, id string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.storage[id]
	if !ok {
		return 0, ErrNotFound
	}
	t.TotalExpenses += amount
	r.storage[id] = t
	return t.TotalExpenses, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, from, to Status, at time.Time) (Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.storage[id]
	if !ok {
		return Trip{}, ErrNotFound
	}
	if t.Status != from {
		return Trip{}, ErrUpdateConflict
	}
	t.Status = to
	stamp := at.UTC()
	switch to {
	case StatusInProgress:
		t.StartedAt = &stamp
	case StatusCompleted:
		t.CompletedAt = &stamp
	}
	r.storage[id] = t
	return t, nil
}
