package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	ListDrivers(ctx context.Context, fleetOwnerID string) ([]User, error)
	CountDrivers(ctx context.Context, fleetOwnerID string) (int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// The fleet owner link is optional; an unlinked driver carries an empty
// string in Go and a NULL in the database. NULLIF alone resolves to text,
// which Postgres refuses to assign to the uuid column, hence the cast.
const insertUserSQL = `INSERT INTO users (id, email, name, role, phone, fleet_owner_id, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, insertUserSQL,
		userID, user.Email, user.Name, user.Role, user.Phone, user.FleetOwnerID, user.PasswordHash, user.CreatedAt.UTC())
	return err
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, role, phone, COALESCE(fleet_owner_id::text, ''), password_hash, created_at
        FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, name, role, phone, COALESCE(fleet_owner_id::text, ''), password_hash, created_at
        FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// ListDrivers returns all drivers linked to a fleet owner.
func (r *PostgresRepository) ListDrivers(ctx context.Context, fleetOwnerID string) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, name, role, phone, COALESCE(fleet_owner_id::text, ''), password_hash, created_at
        FROM users WHERE role = $1 AND fleet_owner_id = $2 ORDER BY created_at`, RoleDriver, fleetOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountDrivers counts drivers linked to a fleet owner.
func (r *PostgresRepository) CountDrivers(ctx context.Context, fleetOwnerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND fleet_owner_id = $2`,
		RoleDriver, fleetOwnerID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		user      User
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &user.Email, &user.Name, &user.Role, &user.Phone, &user.FleetOwnerID, &user.PasswordHash, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
