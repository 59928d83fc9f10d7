package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/notification"
)

// ErrNotParticipant indicates the caller neither owns the trip nor drives it.
var ErrNotParticipant = errors.New("not a participant of this trip")

// Recorder accumulates completed trips into driver performance totals.
type Recorder interface {
	RecordTrip(ctx context.Context, driverID string, distanceKm float64) error
}

// Service exposes trip lifecycle operations.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	recorder Recorder
}

// NewService builds a trip service. notifier and recorder may be nil.
func NewService(repo Repository, notifier notification.Notifier, recorder Recorder) *Service {
	return &Service{repo: repo, notifier: notifier, recorder: recorder}
}

// CreateInput captures the data a fleet owner supplies for a new trip.
type CreateInput struct {
	FleetOwnerID      string
	DriverID          string
	VehicleID         string
	Origin            string
	Destination       string
	CargoDetails      string
	EstimatedDistance float64
}

// Create records a planned trip and notifies the assigned driver.
func (s *Service) Create(ctx context.Context, input CreateInput) (Trip, error) {
	if input.DriverID == "" || input.VehicleID == "" {
		return Trip{}, fmt.Errorf("driver and vehicle are required")
	}
	if input.Origin == "" || input.Destination == "" {
		return Trip{}, fmt.Errorf("origin and destination are required")
	}

	t := Trip{
		ID:                uuid.NewString(),
		FleetOwnerID:      input.FleetOwnerID,
		DriverID:          input.DriverID,
		VehicleID:         input.VehicleID,
		Origin:            input.Origin,
		Destination:       input.Destination,
		CargoDetails:      input.CargoDetails,
		EstimatedDistance: input.EstimatedDistance,
		Status:            StatusPlanned,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Trip{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTripAssigned,
			Destination: t.DriverID,
			Body:        fmt.Sprintf("New trip assigned: %s to %s", t.Origin, t.Destination),
		})
	}

	return t, nil
}

// Get fetches a trip by identifier.
func (s *Service) Get(ctx context.Context, id string) (Trip, error) {
	return s.repo.Get(ctx, id)
}

// ListFor returns the trips visible to a user: all owned trips for fleet
// owners, assigned trips for drivers.
func (s *Service) ListFor(ctx context.Context, userID, role string) ([]Trip, error) {
	if role == identity.RoleFleetOwner {
		return s.repo.ListByOwner(ctx, userID)
	}
	return s.repo.ListByDriver(ctx, userID)
}

// Transition moves a trip through its lifecycle. Either the owning fleet
// owner or the assigned driver may transition; the change is applied as a
// compare-and-swap against the status observed here, so a concurrent
// transition surfaces ErrUpdateConflict rather than silently overwriting.
func (s *Service) Transition(ctx context.Context, actorID, tripID string, to Status) (Trip, error) {
	t, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return Trip{}, err
	}
	if actorID != t.FleetOwnerID && actorID != t.DriverID {
		return Trip{}, ErrNotParticipant
	}
	if !CanTransition(t.Status, to) {
		return Trip{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}

	updated, err := s.repo.UpdateStatus(ctx, tripID, t.Status, to, time.Now().UTC())
	if err != nil {
		return Trip{}, err
	}

	if to == StatusCompleted && s.recorder != nil {
		// Performance totals are advisory; a failed update does not undo the
		// completed transition.
		_ = s.recorder.RecordTrip(ctx, updated.DriverID, updated.EstimatedDistance)
	}

	return updated, nil
}
