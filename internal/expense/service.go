package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

// Service is the expense poster. It validates an expense against the wallet
// guard and hands the approved expense to the ledger, which applies the
// expense record, the wallet debit and the trip aggregate increment as one
// atomic unit.
type Service struct {
	wallets  wallet.Repository
	trips    trip.Repository
	expenses Repository
	poster   Poster
}

// NewService builds the expense poster.
func NewService(wallets wallet.Repository, trips trip.Repository, expenses Repository, poster Poster) *Service {
	return &Service{wallets: wallets, trips: trips, expenses: expenses, poster: poster}
}

// PostInput captures a spend request. ActorID/ActorRole identify the
// authenticated caller; DriverID names the wallet being debited.
type PostInput struct {
	TripID      string
	DriverID    string
	ActorID     string
	ActorRole   string
	Category    wallet.Category
	Amount      int64
	Description string
	Location    string
}

// Post validates and applies one expense.
//
// Wallet and trip existence are preconditions checked before any mutation:
// an invalid trip reference rejects the whole operation without touching the
// wallet. The guard's balance check is advisory under concurrency; the
// ledger's conditional debit is authoritative and a stale pass surfaces
// ErrInsufficientBalance from there.
func (s *Service) Post(ctx context.Context, input PostInput) (Expense, error) {
	if input.Amount <= 0 {
		return Expense{}, fmt.Errorf("amount must be positive")
	}

	w, err := s.wallets.GetByDriver(ctx, input.DriverID)
	if err != nil {
		return Expense{}, err
	}
	t, err := s.trips.Get(ctx, input.TripID)
	if err != nil {
		return Expense{}, err
	}
	// A fleet owner may only post against trips they own, and only for the
	// driver assigned to that trip.
	if input.ActorRole == identity.RoleFleetOwner &&
		(t.FleetOwnerID != input.ActorID || t.DriverID != input.DriverID) {
		return Expense{}, trip.ErrNotParticipant
	}
	if err := wallet.Evaluate(w, input.Category, input.Amount); err != nil {
		return Expense{}, err
	}

	e := Expense{
		ID:          uuid.NewString(),
		TripID:      input.TripID,
		DriverID:    input.DriverID,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		Location:    input.Location,
		Status:      StatusApproved,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.poster.PostExpense(ctx, e)
	if err != nil {
		return Expense{}, err
	}
	return result.Expense, nil
}

// ListFor returns the expenses visible to a user, optionally narrowed to one
// trip. Fleet owners see expenses under trips they own; drivers see their own.
func (s *Service) ListFor(ctx context.Context, userID, role, tripID string) ([]Expense, error) {
	if tripID != "" {
		expenses, err := s.expenses.ListByTrip(ctx, tripID)
		if err != nil {
			return nil, err
		}
		if role == identity.RoleDriver {
			var own []Expense
			for _, e := range expenses {
				if e.DriverID == userID {
					own = append(own, e)
				}
			}
			return own, nil
		}
		return expenses, nil
	}

	if role == identity.RoleFleetOwner {
		trips, err := s.trips.ListByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		tripIDs := make([]string, 0, len(trips))
		for _, t := range trips {
			tripIDs = append(tripIDs, t.ID)
		}
		return s.expenses.ListByTrips(ctx, tripIDs)
	}
	return s.expenses.ListByDriver(ctx, userID)
}
