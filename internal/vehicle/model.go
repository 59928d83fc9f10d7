package vehicle

import (
	"errors"
	"time"
)

// Vehicle statuses.
const (
	StatusAvailable   = "available"
	StatusInUse       = "in_use"
	StatusMaintenance = "maintenance"
)

var (
	// ErrNotFound indicates no vehicle matches the identifier.
	ErrNotFound = errors.New("vehicle not found")

	// ErrPlateTaken indicates the registration number is already in the fleet.
	ErrPlateTaken = errors.New("registration number already registered")
)

// Vehicle is a fleet asset owned by a fleet owner.
type Vehicle struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Registration string    `json:"registration_number"`
	Model        string    `json:"model"`
	CapacityTons float64   `json:"capacity_tons"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
