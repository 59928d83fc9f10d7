package identity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]User), byEmail: make(map[string]string)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) ListDrivers(_ context.Context, fleetOwnerID string) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var drivers []User
	for _, user := range r.byID {
		if user.Role == RoleDriver && user.FleetOwnerID == fleetOwnerID {
			drivers = append(drivers, user)
		}
	}
	return drivers, nil
}

func (r *memoryRepository) CountDrivers(ctx context.Context, fleetOwnerID string) (int, error) {
	drivers, err := r.ListDrivers(ctx, fleetOwnerID)
	if err != nil {
		return 0, err
	}
	return len(drivers), nil
}
