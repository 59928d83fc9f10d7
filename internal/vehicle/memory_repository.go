package vehicle

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Vehicle
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Vehicle)}
}

func (r *memoryRepository) Create(_ context.Context, v Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.Registration == v.Registration {
			return ErrPlateTaken
		}
	}
	r.storage[v.ID] = v
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.storage[id]
	if !ok {
		return Vehicle{}, ErrNotFound
	}
	return v, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vehicles := make([]Vehicle, 0)
	for _, v := range r.storage {
		if v.OwnerID == ownerID {
			vehicles = append(vehicles, v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt)
	})
	return vehicles, nil
}

func (r *memoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, v := range r.storage {
		if v.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	v.Status = status
	r.storage[id] = v
	return nil
}
