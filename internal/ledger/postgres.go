package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transops/transops/internal/expense"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

// PostgresLedger applies postings inside a single database transaction. The
// balance check rides on the debit statement itself, so two concurrent
// expenses against one wallet can never both pass against a stale balance.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// PostExpense persists the expense, debits the wallet and increments the
// trip aggregate as one transaction. Any failure rolls the whole unit back:
// no debit without an expense record, no expense record without a debit.
func (l *PostgresLedger) PostExpense(ctx context.Context, e expense.Expense) (expense.PostResult, error) {
	if e.Amount <= 0 {
		return expense.PostResult{}, fmt.Errorf("amount must be positive")
	}
	expenseID, err := uuid.Parse(e.ID)
	if err != nil {
		return expense.PostResult{}, err
	}
	tripID, err := uuid.Parse(e.TripID)
	if err != nil {
		return expense.PostResult{}, trip.ErrNotFound
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return expense.PostResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var balance int64
	err = tx.QueryRow(ctx, `UPDATE wallets SET balance = balance - $2
        WHERE driver_id = $1 AND balance >= $2
        RETURNING balance`, e.DriverID, e.Amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE driver_id = $1)`, e.DriverID).Scan(&exists); probeErr != nil {
			return expense.PostResult{}, probeErr
		}
		if !exists {
			return expense.PostResult{}, wallet.ErrNotFound
		}
		return expense.PostResult{}, wallet.ErrInsufficientBalance
	}
	if err != nil {
		return expense.PostResult{}, err
	}

	var total int64
	err = tx.QueryRow(ctx, `UPDATE trips SET total_expenses = total_expenses + $2
        WHERE id = $1
        RETURNING total_expenses`, tripID, e.Amount).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return expense.PostResult{}, trip.ErrNotFound
	}
	if err != nil {
		return expense.PostResult{}, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO expenses (id, trip_id, driver_id, category, amount, description, location, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)`,
		expenseID, tripID, e.DriverID, e.Category, e.Amount, e.Description, e.Location, e.Status, e.CreatedAt.UTC()); err != nil {
		return expense.PostResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return expense.PostResult{}, err
	}

	return expense.PostResult{Expense: e, WalletBalance: balance, TripTotal: total}, nil
}

// Credit adds a settled payment amount to the driver's wallet.
func (l *PostgresLedger) Credit(ctx context.Context, driverID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	var balance int64
	err := l.db.QueryRow(ctx, `UPDATE wallets SET balance = balance + $2
        WHERE driver_id = $1
        RETURNING balance`, driverID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, wallet.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
