package performance

import (
	"errors"
	"time"
)

// ErrNotFound indicates no performance record exists for the driver.
var ErrNotFound = errors.New("performance record not found")

// DriverPerformance tracks a driver's running totals. A fresh record starts
// with a full safety score and no accumulated trips.
type DriverPerformance struct {
	ID              string    `json:"id"`
	DriverID        string    `json:"driver_id"`
	TotalTrips      int       `json:"total_trips"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	SafetyScore     float64   `json:"safety_score"`
	RewardPoints    int64     `json:"reward_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
