package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists driver wallets. Balance mutations go exclusively
// through ApplyBalanceDelta so a debit can never race past the balance check.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	GetByDriver(ctx context.Context, driverID string) (Wallet, error)
	UpdateLimits(ctx context.Context, driverID string, patch LimitsPatch) (Wallet, error)

	// ApplyBalanceDelta atomically adjusts the balance by delta and returns
	// the new balance. A negative delta that would drive the balance below
	// zero fails with ErrInsufficientBalance and leaves the wallet untouched.
	ApplyBalanceDelta(ctx context.Context, driverID string, delta int64) (int64, error)
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, driver_id, balance, fuel_limit, toll_limit, food_limit, lodging_limit, repair_limit, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		walletID, w.DriverID, w.Balance,
		w.Limits.Fuel, w.Limits.Toll, w.Limits.Food, w.Limits.Lodging, w.Limits.Repair,
		w.CreatedAt.UTC())
	return err
}

// GetByDriver fetches the wallet owned by the given driver.
func (r *PostgresRepository) GetByDriver(ctx context.Context, driverID string) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, driver_id, balance, fuel_limit, toll_limit, food_limit, lodging_limit, repair_limit, created_at
        FROM wallets WHERE driver_id = $1`, driverID)
	return scanWallet(row)
}

// UpdateLimits applies the non-nil fields of the patch and returns the
// updated wallet.
func (r *PostgresRepository) UpdateLimits(ctx context.Context, driverID string, patch LimitsPatch) (Wallet, error) {
	row := r.db.QueryRow(ctx, `UPDATE wallets SET
            fuel_limit = COALESCE($2, fuel_limit),
            toll_limit = COALESCE($3, toll_limit),
            food_limit = COALESCE($4, food_limit),
            lodging_limit = COALESCE($5, lodging_limit),
            repair_limit = COALESCE($6, repair_limit)
        WHERE driver_id = $1
        RETURNING id, driver_id, balance, fuel_limit, toll_limit, food_limit, lodging_limit, repair_limit, created_at`,
		driverID, patch.Fuel, patch.Toll, patch.Food, patch.Lodging, patch.Repair)
	return scanWallet(row)
}

// ApplyBalanceDelta performs the conditional balance update in a single
// statement so two concurrent debits can never both pass a stale check.
func (r *PostgresRepository) ApplyBalanceDelta(ctx context.Context, driverID string, delta int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `UPDATE wallets SET balance = balance + $2
        WHERE driver_id = $1 AND balance + $2 >= 0
        RETURNING balance`, driverID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE driver_id = $1)`, driverID).Scan(&exists); probeErr != nil {
			return 0, probeErr
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientBalance
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &w.DriverID, &w.Balance,
		&w.Limits.Fuel, &w.Limits.Toll, &w.Limits.Food, &w.Limits.Lodging, &w.Limits.Repair,
		&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrNotFound
	}
	if err != nil {
		return Wallet{}, err
	}
	w.ID = id.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
