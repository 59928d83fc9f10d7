package wallet

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Wallet // keyed by driver id
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Wallet)}
}

func (r *memoryRepository) Create(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[w.DriverID]; exists {
		return errors.New("wallet exists for driver")
	}
	r.storage[w.DriverID] = w
	return nil
}

func (r *memoryRepository) GetByDriver(_ context.Context, driverID string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.storage[driverID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) UpdateLimits(_ context.Context, driverID string, patch LimitsPatch) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.storage[driverID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	if patch.Fuel != nil {
		w.Limits.Fuel = *patch.Fuel
	}
	if patch.Toll != nil {
		w.Limits.Toll = *patch.Toll
	}
	if patch.Food != nil {
		w.Limits.Food = *patch.Food
	}
	if patch.Lodging != nil {
		w.Limits.Lodging = *patch.Lodging
	}
	if patch.Repair != nil {
		w.Limits.Repair = *patch.Repair
	}
	r.storage[driverID] = w
	return w, nil
}

func (r *memoryRepository) ApplyBalanceDelta(_ context.Context, driverID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.storage[driverID]
	if !ok {
		return 0, ErrNotFound
	}
	next := w.Balance + delta
	if next < 0 {
		return 0, ErrInsufficientBalance
	}
	w.Balance = next
	r.storage[driverID] = w
	return next, nil
}
