package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/transops/transops/internal/expense"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

type inMemoryLedger struct {
	mu       sync.Mutex
	wallets  wallet.Repository
	trips    trip.Repository
	expenses expense.Repository
}

// NewInMemory builds a ledger over in-memory repositories for tests and
// database-less development. All postings serialize behind one mutex, which
// stands in for the transaction the Postgres ledger gets from the database.
func NewInMemory(wallets wallet.Repository, trips trip.Repository, expenses expense.Repository) Ledger {
	return &inMemoryLedger{wallets: wallets, trips: trips, expenses: expenses}
}

func (l *inMemoryLedger) PostExpense(ctx context.Context, e expense.Expense) (expense.PostResult, error) {
	if e.Amount <= 0 {
		return expense.PostResult{}, fmt.Errorf("amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Trip existence is a precondition: reject before touching the wallet.
	if _, err := l.trips.Get(ctx, e.TripID); err != nil {
		return expense.PostResult{}, err
	}

	balance, err := l.wallets.ApplyBalanceDelta(ctx, e.DriverID, -e.Amount)
	if err != nil {
		return expense.PostResult{}, err
	}

	if err := l.expenses.Create(ctx, e); err != nil {
		// Undo the debit so the wallet is not left charged without a record.
		_, _ = l.wallets.ApplyBalanceDelta(ctx, e.DriverID, e.Amount)
		return expense.PostResult{}, err
	}

	total, err := l.trips.AddExpenseTotal(ctx, e.TripID, e.Amount)
	if err != nil {
		return expense.PostResult{}, err
	}

	return expense.PostResult{Expense: e, WalletBalance: balance, TripTotal: total}, nil
}

func (l *inMemoryLedger) Credit(ctx context.Context, driverID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.wallets.ApplyBalanceDelta(ctx, driverID, amount)
}
