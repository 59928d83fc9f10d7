package expense

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage []Expense
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, e Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, e)
	return nil
}

func (r *memoryRepository) ListByTrip(_ context.Context, tripID string) ([]Expense, error) {
	return r.filter(func(e Expense) bool { return e.TripID == tripID }), nil
}

func (r *memoryRepository) ListByDriver(_ context.Context, driverID string) ([]Expense, error) {
	return r.filter(func(e Expense) bool { return e.DriverID == driverID }), nil
}

func (r *memoryRepository) ListByTrips(_ context.Context, tripIDs []string) ([]Expense, error) {
	wanted := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(e Expense) bool {
		_, ok := wanted[e.TripID]
		return ok
	}), nil
}

func (r *memoryRepository) filter(keep func(Expense) bool) []Expense {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var expenses []Expense
	for _, e := range r.storage {
		if keep(e) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].CreatedAt.Before(expenses[j].CreatedAt) })
	return expenses
}
