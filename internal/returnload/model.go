package returnload

import (
	"errors"
	"time"
)

// Return load statuses.
const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusExpired   = "expired"
)

var (
	// ErrNotFound indicates no load matches the identifier.
	ErrNotFound = errors.New("return load not found")

	// ErrAlreadyBooked indicates the load was booked by someone else first.
	ErrAlreadyBooked = errors.New("return load already booked")
)

// Load is a marketplace listing for a return journey.
type Load struct {
	ID          string     `json:"id"`
	PostedBy    string     `json:"posted_by"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	CargoType   string     `json:"cargo_type"`
	WeightTons  float64    `json:"weight_tons"`
	Price       int64      `json:"price"`
	Status      string     `json:"status"`
	BookedBy    string     `json:"booked_by,omitempty"`
	BookedAt    *time.Time `json:"booked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
