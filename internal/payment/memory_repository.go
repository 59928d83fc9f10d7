package payment

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage map[string]Transaction // keyed by session id
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, txn Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[txn.SessionID] = txn
	return nil
}

func (r *memoryRepository) GetBySession(_ context.Context, sessionID, userID string) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.storage[sessionID]
	if !ok || txn.UserID != userID {
		return Transaction{}, ErrNotFound
	}
	return txn, nil
}

func (r *memoryRepository) FindBySession(_ context.Context, sessionID string) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.storage[sessionID]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return txn, nil
}

func (r *memoryRepository) Transition(_ context.Context, sessionID, paymentStatus, status string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.storage[sessionID]
	if !ok || txn.PaymentStatus == PaymentStatusPaid {
		return false, nil
	}
	txn.PaymentStatus = paymentStatus
	txn.Status = status
	txn.UpdatedAt = at.UTC()
	r.storage[sessionID] = txn
	return true, nil
}
