package identity

import "time"

const (
	// RoleFleetOwner owns vehicles, trips and return loads and administers
	// driver wallet limits.
	RoleFleetOwner = "fleet_owner"
	// RoleDriver runs trips and spends from a prepaid wallet.
	RoleDriver = "driver"
)

// User represents a registered fleet owner or driver.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	Phone        string
	FleetOwnerID string // drivers only; links the driver to a fleet owner
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carry a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput captures the data needed to create an account.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Role         string
	Phone        string
	FleetOwnerID string
}
