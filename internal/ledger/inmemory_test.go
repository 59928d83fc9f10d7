package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/transops/transops/internal/expense"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

func seededLedger(t *testing.T, balance int64) (Ledger, wallet.Repository, trip.Repository) {
	t.Helper()
	ctx := context.Background()

	wallets := wallet.NewMemoryRepository()
	trips := trip.NewMemoryRepository()
	expenses := expense.NewMemoryRepository()

	if err := wallets.Create(ctx, wallet.Wallet{
		ID:       "w-1",
		DriverID: "driver-1",
		Balance:  balance,
		Limits:   wallet.Limits{Fuel: balance},
	}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if err := trips.Create(ctx, trip.Trip{
		ID:           "trip-1",
		FleetOwnerID: "owner-1",
		DriverID:     "driver-1",
		VehicleID:    "veh-1",
		Origin:       "Nagpur",
		Destination:  "Indore",
		Status:       trip.StatusInProgress,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	return NewInMemory(wallets, trips, expenses), wallets, trips
}

func TestPostExpenseAtomicResult(t *testing.T) {
	ctx := context.Background()
	led, _, _ := seededLedger(t, 5_000)

	result, err := led.PostExpense(ctx, expense.Expense{
		ID:       "e-1",
		TripID:   "trip-1",
		DriverID: "driver-1",
		Category: wallet.CategoryFuel,
		Amount:   2_000,
		Status:   expense.StatusApproved,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if result.WalletBalance != 3_000 {
		t.Fatalf("expected balance 3000, got %d", result.WalletBalance)
	}
	if result.TripTotal != 2_000 {
		t.Fatalf("expected trip total 2000, got %d", result.TripTotal)
	}
}

func TestPostExpenseUnknownTripLeavesWalletUntouched(t *testing.T) {
	ctx := context.Background()
	led, wallets, _ := seededLedger(t, 5_000)

	_, err := led.PostExpense(ctx, expense.Expense{
		ID:       "e-1",
		TripID:   "missing",
		DriverID: "driver-1",
		Amount:   2_000,
	})
	if !errors.Is(err, trip.ErrNotFound) {
		t.Fatalf("expected trip.ErrNotFound, got %v", err)
	}

	w, _ := wallets.GetByDriver(ctx, "driver-1")
	if w.Balance != 5_000 {
		t.Fatalf("wallet must be untouched, got %d", w.Balance)
	}
}

func TestPostExpenseInsufficientBalance(t *testing.T) {
	led, _, _ := seededLedger(t, 1_000)

	_, err := led.PostExpense(context.Background(), expense.Expense{
		ID:       "e-1",
		TripID:   "trip-1",
		DriverID: "driver-1",
		Amount:   1_001,
	})
	if !errors.Is(err, wallet.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	led, wallets, _ := seededLedger(t, 1_000)

	balance, err := led.Credit(ctx, "driver-1", 50_000)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if balance != 51_000 {
		t.Fatalf("expected balance 51000, got %d", balance)
	}

	w, _ := wallets.GetByDriver(ctx, "driver-1")
	if w.Balance != 51_000 {
		t.Fatalf("stored balance mismatch: %d", w.Balance)
	}
}

func TestCreditRejectsNonPositiveAmounts(t *testing.T) {
	led, _, _ := seededLedger(t, 1_000)
	for _, amount := range []int64{0, -5} {
		if _, err := led.Credit(context.Background(), "driver-1", amount); err == nil {
			t.Fatalf("expected rejection for amount %d", amount)
		}
	}
}

func TestConcurrentDebitsAndCreditsStayConsistent(t *testing.T) {
	ctx := context.Background()
	led, wallets, trips := seededLedger(t, 10_000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var posted int64

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%3 == 0 {
				_, _ = led.Credit(ctx, "driver-1", 500)
				return
			}
			_, err := led.PostExpense(ctx, expense.Expense{
				ID:       "e-" + string(rune('a'+n)),
				TripID:   "trip-1",
				DriverID: "driver-1",
				Amount:   700,
			})
			if err == nil {
				mu.Lock()
				posted += 700
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	w, _ := wallets.GetByDriver(ctx, "driver-1")
	if w.Balance < 0 {
		t.Fatalf("balance went negative: %d", w.Balance)
	}

	// Conservation: initial + credits - successful debits == final balance.
	credits := int64(10 * 500)
	if got := 10_000 + credits - posted; got != w.Balance {
		t.Fatalf("balance mismatch: want %d got %d", got, w.Balance)
	}

	tr, _ := trips.Get(ctx, "trip-1")
	if tr.TotalExpenses != posted {
		t.Fatalf("trip aggregate %d does not match posted %d", tr.TotalExpenses, posted)
	}
}
