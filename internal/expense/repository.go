package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads and writes expense records. Create is only called from
// inside a ledger posting; the query methods feed listings and dashboards.
type Repository interface {
	Create(ctx context.Context, e Expense) error
	ListByTrip(ctx context.Context, tripID string) ([]Expense, error)
	ListByDriver(ctx context.Context, driverID string) ([]Expense, error)
	ListByTrips(ctx context.Context, tripIDs []string) ([]Expense, error)
}

// PostgresRepository stores expenses in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const expenseColumns = `id, trip_id, driver_id, category, amount,
    COALESCE(description, ''), COALESCE(location, ''), status, created_at`

// Create inserts an expense record.
func (r *PostgresRepository) Create(ctx context.Context, e Expense) error {
	expenseID, err := uuid.Parse(e.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO expenses (id, trip_id, driver_id, category, amount, description, location, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)`,
		expenseID, e.TripID, e.DriverID, e.Category, e.Amount, e.Description, e.Location, e.Status, e.CreatedAt.UTC())
	return err
}

// ListByTrip returns expenses referencing one trip.
func (r *PostgresRepository) ListByTrip(ctx context.Context, tripID string) ([]Expense, error) {
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE trip_id = $1 ORDER BY created_at`, tripID)
}

// ListByDriver returns expenses created by one driver.
func (r *PostgresRepository) ListByDriver(ctx context.Context, driverID string) ([]Expense, error) {
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE driver_id = $1 ORDER BY created_at`, driverID)
}

// ListByTrips returns expenses referencing any of the given trips.
func (r *PostgresRepository) ListByTrips(ctx context.Context, tripIDs []string) ([]Expense, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE trip_id = ANY($1) ORDER BY created_at`, tripIDs)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Expense, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			e         Expense
			id        uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &e.TripID, &e.DriverID, &e.Category, &e.Amount,
			&e.Description, &e.Location, &e.Status, &createdAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.CreatedAt = createdAt.UTC()
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
