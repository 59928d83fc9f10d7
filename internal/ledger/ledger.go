package ledger

import (
	"context"

	"github.com/transops/transops/internal/expense"
)

// Ledger applies every money mutation in the system: expense postings (debit
// plus trip aggregate) and wallet credits from settled payments. Both
// operations are atomic relative to concurrent callers, so a wallet balance
// can never be driven negative and a trip total can never lose an update.
type Ledger interface {
	expense.Poster

	// Credit adds amount to the driver's wallet and returns the new balance.
	Credit(ctx context.Context, driverID string, amount int64) (int64, error)
}
