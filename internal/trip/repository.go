package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists trips. AddExpenseTotal and UpdateStatus are the only
// mutation paths after creation, and both are conditional/atomic so
// concurrent writers cannot lose updates.
type Repository interface {
	Create(ctx context.Context, t Trip) error
	Get(ctx context.Context, id string) (Trip, error)
	ListByOwner(ctx context.Context, fleetOwnerID string) ([]Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]Trip, error)

	// AddExpenseTotal atomically increments the trip's expense aggregate and
	// returns the new total.
	AddExpenseTotal(ctx context.Context, id string, amount int64) (int64, error)

	// UpdateStatus moves the trip from one status to another, stamping
	// started_at/completed_at as appropriate. It applies only when the stored
	// status still equals from; losing that race yields ErrUpdateConflict.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Trip, error)
}

// PostgresRepository stores trips in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tripColumns = `id, fleet_owner_id, driver_id, vehicle_id, origin, destination,
    COALESCE(cargo_details, ''), COALESCE(estimated_distance, 0), status, total_expenses,
    created_at, started_at, completed_at`

// Create inserts a trip record.
func (r *PostgresRepository) Create(ctx context.Context, t Trip) error {
	tripID, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO trips (id, fleet_owner_id, driver_id, vehicle_id, origin, destination, cargo_details, estimated_distance, status, total_expenses, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)`,
		tripID, t.FleetOwnerID, t.DriverID, t.VehicleID, t.Origin, t.Destination,
		t.CargoDetails, t.EstimatedDistance, t.Status, t.TotalExpenses, t.CreatedAt.UTC())
	return err
}

// Get fetches a trip by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Trip, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return Trip{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, tripID)
	return scanTrip(row)
}

// ListByOwner returns trips created by a fleet owner.
func (r *PostgresRepository) ListByOwner(ctx context.Context, fleetOwnerID string) ([]Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips WHERE fleet_owner_id = $1 ORDER BY created_at DESC`, fleetOwnerID)
}

// ListByDriver returns trips assigned to a driver.
func (r *PostgresRepository) ListByDriver(ctx context.Context, driverID string) ([]Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips WHERE driver_id = $1 ORDER BY created_at DESC`, driverID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Trip, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// AddExpenseTotal increments the aggregate in a single statement.
func (r *PostgresRepository) AddExpenseTotal(ctx context.Context, id string, amount int64) (int64, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var total int64
	err = r.db.QueryRow(ctx, `UPDATE trips SET total_expenses = total_expenses + $2 WHERE id = $1
        RETURNING total_expenses`, tripID, amount).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStatus performs the compare-and-swap lifecycle change.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Trip, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return Trip{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE trips SET status = $3,
            started_at = CASE WHEN $3 = 'in_progress' THEN $4 ELSE started_at END,
            completed_at = CASE WHEN $3 = 'completed' THEN $4 ELSE completed_at END
        WHERE id = $1 AND status = $2
        RETURNING `+tripColumns, tripID, from, to, at.UTC())
	t, err := scanTrip(row)
	if errors.Is(err, ErrNotFound) {
		// Either the trip is gone or someone moved it first.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return Trip{}, getErr
		}
		return Trip{}, ErrUpdateConflict
	}
	return t, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (Trip, error) {
	var (
		t         Trip
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &t.FleetOwnerID, &t.DriverID, &t.VehicleID, &t.Origin, &t.Destination,
		&t.CargoDetails, &t.EstimatedDistance, &t.Status, &t.TotalExpenses,
		&createdAt, &t.StartedAt, &t.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	if err != nil {
		return Trip{}, err
	}
	t.ID = id.String()
	t.CreatedAt = createdAt.UTC()
	return t, nil
}
