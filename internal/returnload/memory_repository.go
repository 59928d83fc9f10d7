package returnload

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage map[string]Load
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Load)}
}

func (r *memoryRepository) Create(_ context.Context, load Load) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[load.ID] = load
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Load, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	load, ok := r.storage[id]
	if !ok {
		return Load{}, ErrNotFound
	}
	return load, nil
}

func (r *memoryRepository) ListAvailable(_ context.Context, destination string) ([]Load, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loads := make([]Load, 0)
	for _, load := range r.storage {
		if load.Status != StatusAvailable {
			continue
		}
		if destination != "" && !strings.EqualFold(load.Destination, destination) {
			continue
		}
		loads = append(loads, load)
	}
	sort.Slice(loads, func(i, j int) bool {
		return loads[i].CreatedAt.After(loads[j].CreatedAt)
	})
	return loads, nil
}

func (r *memoryRepository) Book(_ context.Context, id, driverID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	load, ok := r.storage[id]
	if !ok || load.Status != StatusAvailable {
		return false, nil
	}
	at = at.UTC()
	load.Status = StatusBooked
	load.BookedBy = driverID
	load.BookedAt = &at
	r.storage[id] = load
	return true, nil
}
