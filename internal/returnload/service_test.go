package returnload

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func postLoad(t *testing.T, svc *Service) Load {
	t.Helper()
	load, err := svc.Post(context.Background(), CreateInput{
		PostedBy:    "owner-1",
		Origin:      "Surat",
		Destination: "Ahmedabad",
		CargoType:   "textiles",
		WeightTons:  8,
		Price:       1_500_000,
	})
	if err != nil {
		t.Fatalf("post load: %v", err)
	}
	return load
}

func TestPostStartsAvailable(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	load := postLoad(t, svc)
	if load.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", load.Status)
	}
}

func TestPostValidations(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Post(ctx, CreateInput{PostedBy: "owner-1", Destination: "X"}); err == nil {
		t.Fatal("expected missing origin to fail")
	}
	if _, err := svc.Post(ctx, CreateInput{PostedBy: "owner-1", Origin: "A", Destination: "B", Price: -1}); err == nil {
		t.Fatal("expected negative price to fail")
	}
}

func TestBookClaimsLoad(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	load := postLoad(t, svc)

	booked, err := svc.Book(context.Background(), "driver-1", load.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.Status != StatusBooked || booked.BookedBy != "driver-1" || booked.BookedAt == nil {
		t.Fatalf("unexpected booking state: %+v", booked)
	}

	// Booked loads disappear from the open listing.
	open, err := svc.Search(context.Background(), "")
	if err != nil || len(open) != 0 {
		t.Fatalf("expected empty listing, got %v %d", err, len(open))
	}
}

func TestBookUnknownLoad(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Book(context.Background(), "driver-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentBookingsOneWinner(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	load := postLoad(t, svc)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := map[string]bool{}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			driver := "driver-" + string(rune('a'+n))
			booked, err := svc.Book(ctx, driver, load.ID)
			if err == nil {
				mu.Lock()
				winners[booked.BookedBy] = true
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrAlreadyBooked) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning driver, got %d", len(winners))
	}

	final, err := svc.repo.Get(ctx, load.ID)
	if err != nil {
		t.Fatalf("get load: %v", err)
	}
	if !winners[final.BookedBy] {
		t.Fatalf("stored booking %q does not match winner set %v", final.BookedBy, winners)
	}
}

func TestSearchFiltersByDestination(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	postLoad(t, svc)

	matched, err := svc.Search(context.Background(), "ahmedabad")
	if err != nil || len(matched) != 1 {
		t.Fatalf("destination filter: %v, %d loads", err, len(matched))
	}
	none, err := svc.Search(context.Background(), "Chennai")
	if err != nil || len(none) != 0 {
		t.Fatalf("non-matching filter: %v, %d loads", err, len(none))
	}
}
