package performance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists driver performance records.
type Repository interface {
	Create(ctx context.Context, record DriverPerformance) error
	GetByDriver(ctx context.Context, driverID string) (DriverPerformance, error)

	// RecordTrip bumps the trip counter and distance for a completed trip.
	RecordTrip(ctx context.Context, driverID string, distanceKm float64) error
}

// PostgresRepository stores performance records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a performance record.
func (r *PostgresRepository) Create(ctx context.Context, record DriverPerformance) error {
	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO driver_performance (id, driver_id, total_trips, total_distance_km, safety_score, reward_points, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		recordID, record.DriverID, record.TotalTrips, record.TotalDistanceKm,
		record.SafetyScore, record.RewardPoints, record.CreatedAt.UTC(), record.UpdatedAt.UTC())
	return err
}

// GetByDriver fetches a driver's performance record.
func (r *PostgresRepository) GetByDriver(ctx context.Context, driverID string) (DriverPerformance, error) {
	row := r.db.QueryRow(ctx, `SELECT id, driver_id, total_trips, total_distance_km, safety_score, reward_points, created_at, updated_at
        FROM driver_performance WHERE driver_id = $1`, driverID)

	var (
		record    DriverPerformance
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &record.DriverID, &record.TotalTrips, &record.TotalDistanceKm,
		&record.SafetyScore, &record.RewardPoints, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DriverPerformance{}, ErrNotFound
	}
	if err != nil {
		return DriverPerformance{}, err
	}
	record.ID = id.String()
	record.CreatedAt = createdAt.UTC()
	record.UpdatedAt = updatedAt.UTC()
	return record, nil
}

// RecordTrip accumulates a completed trip atomically.
func (r *PostgresRepository) RecordTrip(ctx context.Context, driverID string, distanceKm float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE driver_performance
        SET total_trips = total_trips + 1,
            total_distance_km = total_distance_km + $2,
            updated_at = now()
        WHERE driver_id = $1`, driverID, distanceKm)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
