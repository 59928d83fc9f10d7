package expense_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/transops/transops/internal/expense"
	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/ledger"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

type fixture struct {
	wallets  wallet.Repository
	trips    trip.Repository
	expenses expense.Repository
	svc      *expense.Service
}

func newFixture(t *testing.T, balance int64, limits wallet.Limits) fixture {
	t.Helper()
	ctx := context.Background()

	wallets := wallet.NewMemoryRepository()
	trips := trip.NewMemoryRepository()
	expenses := expense.NewMemoryRepository()
	poster := ledger.NewInMemory(wallets, trips, expenses)

	if err := wallets.Create(ctx, wallet.Wallet{
		ID:       "w-1",
		DriverID: "driver-1",
		Balance:  balance,
		Limits:   limits,
	}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if err := trips.Create(ctx, trip.Trip{
		ID:           "trip-1",
		FleetOwnerID: "owner-1",
		DriverID:     "driver-1",
		VehicleID:    "veh-1",
		Origin:       "Mumbai",
		Destination:  "Pune",
		Status:       trip.StatusInProgress,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	return fixture{
		wallets:  wallets,
		trips:    trips,
		expenses: expenses,
		svc:      expense.NewService(wallets, trips, expenses, poster),
	}
}

func TestPostDebitsWalletAndIncrementsTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	e, err := f.svc.Post(ctx, expense.PostInput{
		TripID:      "trip-1",
		DriverID:    "driver-1",
		Category:    wallet.CategoryFuel,
		Amount:      30_000,
		Description: "diesel top up",
	})
	if err != nil {
		t.Fatalf("post expense: %v", err)
	}
	if e.Status != expense.StatusApproved {
		t.Fatalf("expected approved status, got %q", e.Status)
	}

	w, err := f.wallets.GetByDriver(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.Balance != 70_000 {
		t.Fatalf("expected balance 70000, got %d", w.Balance)
	}

	tr, err := f.trips.Get(ctx, "trip-1")
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if tr.TotalExpenses != 30_000 {
		t.Fatalf("expected trip total 30000, got %d", tr.TotalExpenses)
	}

	recorded, err := f.expenses.ListByTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(recorded) != 1 || recorded[0].ID != e.ID {
		t.Fatalf("expected one recorded expense, got %+v", recorded)
	}
}

func TestPostRejectsUnknownWallet(t *testing.T) {
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	_, err := f.svc.Post(context.Background(), expense.PostInput{
		TripID:   "trip-1",
		DriverID: "ghost",
		Category: wallet.CategoryFuel,
		Amount:   100,
	})
	if !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet.ErrNotFound, got %v", err)
	}
}

func TestPostRejectsUnknownTripWithoutDebit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	_, err := f.svc.Post(ctx, expense.PostInput{
		TripID:   "nope",
		DriverID: "driver-1",
		Category: wallet.CategoryFuel,
		Amount:   100,
	})
	if !errors.Is(err, trip.ErrNotFound) {
		t.Fatalf("expected trip.ErrNotFound, got %v", err)
	}

	w, _ := f.wallets.GetByDriver(ctx, "driver-1")
	if w.Balance != 100_000 {
		t.Fatalf("wallet must be untouched, got balance %d", w.Balance)
	}
}

func TestPostRejectsOverLimit(t *testing.T) {
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 1_000})

	_, err := f.svc.Post(context.Background(), expense.PostInput{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Category: wallet.CategoryFuel,
		Amount:   1_001,
	})
	if !errors.Is(err, wallet.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestPostRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	_, err := f.svc.Post(context.Background(), expense.PostInput{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Category: wallet.Category("parking"),
		Amount:   1,
	})
	if !errors.Is(err, wallet.ErrLimitExceeded) {
		t.Fatalf("expected unknown category to be locked, got %v", err)
	}
}

func TestOwnerPostsOnOwnTrip(t *testing.T) {
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	_, err := f.svc.Post(context.Background(), expense.PostInput{
		TripID:    "trip-1",
		DriverID:  "driver-1",
		ActorID:   "owner-1",
		ActorRole: identity.RoleFleetOwner,
		Category:  wallet.CategoryFuel,
		Amount:    1_000,
	})
	if err != nil {
		t.Fatalf("owner posting on own trip: %v", err)
	}
}

func TestOwnerCannotPostOnForeignTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	_, err := f.svc.Post(ctx, expense.PostInput{
		TripID:    "trip-1",
		DriverID:  "driver-1",
		ActorID:   "owner-2",
		ActorRole: identity.RoleFleetOwner,
		Category:  wallet.CategoryFuel,
		Amount:    1_000,
	})
	if !errors.Is(err, trip.ErrNotParticipant) {
		t.Fatalf("expected trip.ErrNotParticipant, got %v", err)
	}

	w, _ := f.wallets.GetByDriver(ctx, "driver-1")
	if w.Balance != 100_000 {
		t.Fatalf("wallet must be untouched, got balance %d", w.Balance)
	}
}

func TestOwnerCannotPostAgainstUnassignedDriver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100_000, wallet.Limits{Fuel: 50_000})

	if err := f.wallets.Create(ctx, wallet.Wallet{
		ID:       "w-2",
		DriverID: "driver-2",
		Balance:  100_000,
		Limits:   wallet.Limits{Fuel: 50_000},
	}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	_, err := f.svc.Post(ctx, expense.PostInput{
		TripID:    "trip-1",
		DriverID:  "driver-2",
		ActorID:   "owner-1",
		ActorRole: identity.RoleFleetOwner,
		Category:  wallet.CategoryFuel,
		Amount:    1_000,
	})
	if !errors.Is(err, trip.ErrNotParticipant) {
		t.Fatalf("expected trip.ErrNotParticipant, got %v", err)
	}

	w, _ := f.wallets.GetByDriver(ctx, "driver-2")
	if w.Balance != 100_000 {
		t.Fatalf("wallet must be untouched, got balance %d", w.Balance)
	}
}

func TestConcurrentPostsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10_000, wallet.Limits{Fuel: 10_000})

	const workers = 20
	const amount = 1_000

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Post(ctx, expense.PostInput{
				TripID:   "trip-1",
				DriverID: "driver-1",
				Category: wallet.CategoryFuel,
				Amount:   amount,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, wallet.ErrInsufficientBalance) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 {
		t.Fatalf("expected exactly 10 successful posts, got %d", succeeded)
	}

	w, _ := f.wallets.GetByDriver(ctx, "driver-1")
	if w.Balance != 0 {
		t.Fatalf("expected drained wallet, got balance %d", w.Balance)
	}
	if w.Balance < 0 {
		t.Fatalf("balance went negative: %d", w.Balance)
	}

	tr, _ := f.trips.Get(ctx, "trip-1")
	if tr.TotalExpenses != 10_000 {
		t.Fatalf("expected trip total 10000, got %d", tr.TotalExpenses)
	}

	recorded, _ := f.expenses.ListByTrip(ctx, "trip-1")
	if len(recorded) != 10 {
		t.Fatalf("expected 10 expense records, got %d", len(recorded))
	}
}
