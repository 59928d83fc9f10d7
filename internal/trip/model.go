package trip

import (
	"errors"
	"time"
)

// Status is a trip's lifecycle state.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	// ErrNotFound indicates the referenced trip does not exist.
	ErrNotFound = errors.New("trip not found")

	// ErrInvalidTransition indicates the requested lifecycle change is not
	// permitted from the trip's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUpdateConflict indicates a conditional update lost a race with a
	// concurrent writer. Expected under load; callers re-read and may retry.
	ErrUpdateConflict = errors.New("concurrent update conflict")
)

// transitions maps each status to the statuses reachable from it.
var transitions = map[Status][]Status{
	StatusPlanned:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a trip may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a status string from the API surface.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), true
	default:
		return "", false
	}
}

// Trip is a haul assigned by a fleet owner to one driver and one vehicle.
// TotalExpenses is a running aggregate in paise that always equals the sum
// of approved expenses referencing the trip; it is only mutated through the
// atomic increment in expense posting.
type Trip struct {
	ID                string     `json:"id"`
	FleetOwnerID      string     `json:"fleet_owner_id"`
	DriverID          string     `json:"driver_id"`
	VehicleID         string     `json:"vehicle_id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	CargoDetails      string     `json:"cargo_details,omitempty"`
	EstimatedDistance float64    `json:"estimated_distance,omitempty"`
	Status            Status     `json:"status"`
	TotalExpenses     int64      `json:"total_expenses"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
