package returnload

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists return load listings. Book is conditional on the load
// still being available so two drivers cannot claim the same load.
type Repository interface {
	Create(ctx context.Context, load Load) error
	Get(ctx context.Context, id string) (Load, error)
	ListAvailable(ctx context.Context, destination string) ([]Load, error)

	// Book claims the load for a driver if it is still available. Returns
	// whether the claim was applied.
	Book(ctx context.Context, id, driverID string, at time.Time) (bool, error)
}

// PostgresRepository stores return loads in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const loadColumns = `id, posted_by, origin, destination, cargo_type, weight_tons, price,
    status, COALESCE(booked_by, ''), booked_at, created_at`

// Create inserts a load listing.
func (r *PostgresRepository) Create(ctx context.Context, load Load) error {
	loadID, err := uuid.Parse(load.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO return_loads (id, posted_by, origin, destination, cargo_type, weight_tons, price, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		loadID, load.PostedBy, load.Origin, load.Destination, load.CargoType,
		load.WeightTons, load.Price, load.Status, load.CreatedAt.UTC())
	return err
}

// Get fetches a load by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Load, error) {
	row := r.db.QueryRow(ctx, `SELECT `+loadColumns+` FROM return_loads WHERE id = $1`, id)
	return scanLoad(row)
}

// ListAvailable fetches open listings, optionally filtered by destination.
func (r *PostgresRepository) ListAvailable(ctx context.Context, destination string) ([]Load, error) {
	rows, err := r.db.Query(ctx, `SELECT `+loadColumns+` FROM return_loads
        WHERE status = $1 AND ($2 = '' OR destination ILIKE $2)
        ORDER BY created_at DESC`, StatusAvailable, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := make([]Load, 0)
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, load)
	}
	return loads, rows.Err()
}

// Book claims the load in a single conditional statement.
func (r *PostgresRepository) Book(ctx context.Context, id, driverID string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE return_loads
        SET status = $3, booked_by = $2, booked_at = $4
        WHERE id = $1 AND status = $5`,
		id, driverID, StatusBooked, at.UTC(), StatusAvailable)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(row rowScanner) (Load, error) {
	var (
		load      Load
		id        uuid.UUID
		bookedAt  *time.Time
		createdAt time.Time
	)
	err := row.Scan(&id, &load.PostedBy, &load.Origin, &load.Destination, &load.CargoType,
		&load.WeightTons, &load.Price, &load.Status, &load.BookedBy, &bookedAt, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Load{}, ErrNotFound
	}
	if err != nil {
		return Load{}, err
	}
	load.ID = id.String()
	load.BookedAt = bookedAt
	load.CreatedAt = createdAt.UTC()
	return load, nil
}
