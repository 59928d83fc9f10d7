package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no wallet exists for the requested driver.
	ErrNotFound = errors.New("wallet not found")

	// ErrLimitExceeded indicates the expense amount exceeds the wallet's
	// ceiling for its category.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInsufficientBalance indicates the wallet balance cannot cover the
	// expense amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Rejection explains why the guard refused an expense. It wraps one of the
// guard sentinel errors and carries the offending category and amounts for
// user-facing messaging.
type Rejection struct {
	Reason   error
	Category Category
	Amount   int64
	// Ceiling is the category limit for limit rejections, or the available
	// balance for balance rejections.
	Ceiling int64
}

func (r *Rejection) Error() string {
	switch {
	case errors.Is(r.Reason, ErrLimitExceeded):
		return fmt.Sprintf("%s expense of %d exceeds category limit %d", r.Category, r.Amount, r.Ceiling)
	case errors.Is(r.Reason, ErrInsufficientBalance):
		return fmt.Sprintf("%s expense of %d exceeds available balance %d", r.Category, r.Amount, r.Ceiling)
	default:
		return r.Reason.Error()
	}
}

func (r *Rejection) Unwrap() error {
	return r.Reason
}

// Evaluate decides whether the wallet permits a single expense of the given
// category and amount. It has no side effects and is safe to call
// speculatively; the authoritative balance check happens again inside the
// conditional debit.
//
// Limits are checked before balance, so an over-limit expense reports
// ErrLimitExceeded regardless of balance. Amounts equal to the limit or the
// balance pass.
func Evaluate(w Wallet, category Category, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if limit := w.Limits.For(category); amount > limit {
		return &Rejection{Reason: ErrLimitExceeded, Category: category, Amount: amount, Ceiling: limit}
	}
	if amount > w.Balance {
		return &Rejection{Reason: ErrInsufficientBalance, Category: category, Amount: amount, Ceiling: w.Balance}
	}
	return nil
}
