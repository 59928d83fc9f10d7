package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists payment transactions. Status changes go exclusively
// through Transition, whose "not already paid" condition is evaluated inside
// the store so duplicate reconciliations cannot both observe a stale status.
type Repository interface {
	Create(ctx context.Context, txn Transaction) error

	// GetBySession fetches the transaction scoped to its owning user.
	GetBySession(ctx context.Context, sessionID, userID string) (Transaction, error)

	// FindBySession fetches the transaction by session alone (webhook path,
	// where no authenticated user is available).
	FindBySession(ctx context.Context, sessionID string) (Transaction, error)

	// Transition updates payment_status/status unless the transaction is
	// already paid. Returns whether the update was applied. paid is terminal:
	// once applied, every later Transition reports false.
	Transition(ctx context.Context, sessionID, paymentStatus, status string, at time.Time) (bool, error)
}

// PostgresRepository stores payment transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const transactionColumns = `id, user_id, session_id, amount, currency, COALESCE(package, ''),
    payment_status, status, created_at, updated_at`

// Create inserts a transaction record.
func (r *PostgresRepository) Create(ctx context.Context, txn Transaction) error {
	txnID, err := uuid.Parse(txn.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO payment_transactions (id, user_id, session_id, amount, currency, package, payment_status, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`,
		txnID, txn.UserID, txn.SessionID, txn.Amount, txn.Currency, txn.Package,
		txn.PaymentStatus, txn.Status, txn.CreatedAt.UTC(), txn.UpdatedAt.UTC())
	return err
}

// GetBySession fetches a transaction by session and owner.
func (r *PostgresRepository) GetBySession(ctx context.Context, sessionID, userID string) (Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+`
        FROM payment_transactions WHERE session_id = $1 AND user_id = $2`, sessionID, userID)
	return scanTransaction(row)
}

// FindBySession fetches a transaction by session identifier.
func (r *PostgresRepository) FindBySession(ctx context.Context, sessionID string) (Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+`
        FROM payment_transactions WHERE session_id = $1`, sessionID)
	return scanTransaction(row)
}

// Transition applies the conditional status update in a single statement.
func (r *PostgresRepository) Transition(ctx context.Context, sessionID, paymentStatus, status string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE payment_transactions
        SET payment_status = $2, status = $3, updated_at = $4
        WHERE session_id = $1 AND payment_status <> $5`,
		sessionID, paymentStatus, status, at.UTC(), PaymentStatusPaid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		txn       Transaction
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &txn.UserID, &txn.SessionID, &txn.Amount, &txn.Currency, &txn.Package,
		&txn.PaymentStatus, &txn.Status, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	txn.ID = id.String()
	txn.CreatedAt = createdAt.UTC()
	txn.UpdatedAt = updatedAt.UTC()
	return txn, nil
}
