package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists fleet vehicles.
type Repository interface {
	Create(ctx context.Context, v Vehicle) error
	Get(ctx context.Context, id string) (Vehicle, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Vehicle, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PostgresRepository stores vehicles in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const vehicleColumns = `id, owner_id, registration_number, model, capacity_tons, status, created_at`

// Create inserts a vehicle record.
func (r *PostgresRepository) Create(ctx context.Context, v Vehicle) error {
	vehicleID, err := uuid.Parse(v.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO vehicles (id, owner_id, registration_number, model, capacity_tons, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		vehicleID, v.OwnerID, v.Registration, v.Model, v.CapacityTons, v.Status, v.CreatedAt.UTC())
	return err
}

// Get fetches a vehicle by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	return scanVehicle(row)
}

// ListByOwner fetches all vehicles registered by a fleet owner.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles
        WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// CountByOwner counts a fleet owner's vehicles.
func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

// UpdateStatus sets a vehicle's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE vehicles SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (Vehicle, error) {
	var (
		v         Vehicle
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &v.OwnerID, &v.Registration, &v.Model, &v.CapacityTons, &v.Status, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, ErrNotFound
	}
	if err != nil {
		return Vehicle{}, err
	}
	v.ID = id.String()
	v.CreatedAt = createdAt.UTC()
	return v, nil
}
