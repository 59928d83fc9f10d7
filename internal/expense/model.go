package expense

import (
	"context"
	"time"

	"github.com/transops/transops/internal/wallet"
)

// StatusApproved is the only reachable expense status under the current
// policy. Pending/rejected are reserved for a future approval workflow.
const StatusApproved = "approved"

// Expense is an immutable record of one spend event. It is created once by
// the poster and never mutated or deleted.
type Expense struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	DriverID    string          `json:"driver_id"`
	Category    wallet.Category `json:"category"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PostResult captures the state changes produced by posting an expense.
type PostResult struct {
	Expense       Expense
	WalletBalance int64
	TripTotal     int64
}

// Poster applies an approved expense as a single atomic unit: persist the
// expense, debit the wallet, increment the trip aggregate. Implemented by
// the ledger backends.
type Poster interface {
	PostExpense(ctx context.Context, e Expense) (PostResult, error)
}
