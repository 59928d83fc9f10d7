package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/logging"
	"github.com/transops/transops/internal/payment"
)

type fakeCrediter struct {
	mu      sync.Mutex
	credits []int64
	err     error
}

func (f *fakeCrediter) Credit(_ context.Context, _ string, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.credits = append(f.credits, amount)
	var total int64
	for _, c := range f.credits {
		total += c
	}
	return total, nil
}

func (f *fakeCrediter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.credits)
}

type fakeUsers struct {
	users map[string]identity.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return u, nil
}

// countingGateway wraps the static gateway to observe provider traffic.
type countingGateway struct {
	*payment.StaticGateway
	queries atomic.Int64
	fail    atomic.Bool
}

func (g *countingGateway) QueryStatus(ctx context.Context, sessionID string) (payment.SessionStatus, error) {
	if g.fail.Load() {
		return payment.SessionStatus{}, fmt.Errorf("gateway down")
	}
	g.queries.Add(1)
	return g.StaticGateway.QueryStatus(ctx, sessionID)
}

type harness struct {
	svc     *payment.Service
	repo    payment.Repository
	gateway *countingGateway
	ledger  *fakeCrediter
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	gateway := &countingGateway{StaticGateway: payment.NewStaticGateway("whsec_test")}
	ledger := &fakeCrediter{}
	repo := payment.NewMemoryRepository()
	users := &fakeUsers{users: map[string]identity.User{
		"driver-1": {ID: "driver-1", Role: identity.RoleDriver},
		"owner-1":  {ID: "owner-1", Role: identity.RoleFleetOwner},
	}}
	svc := payment.NewService(repo, gateway, ledger, users,
		map[string]int64{"small": 50_000, "medium": 100_000},
		nil, logging.Discard())

	return &harness{svc: svc, repo: repo, gateway: gateway, ledger: ledger}
}

func (h *harness) checkout(t *testing.T, userID, pkg string) payment.CheckoutResult {
	t.Helper()
	result, err := h.svc.Checkout(context.Background(), userID, pkg)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return result
}

func TestCheckoutUnknownPackage(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Checkout(context.Background(), "driver-1", "mega")
	if !errors.Is(err, payment.ErrUnknownPackage) {
		t.Fatalf("expected ErrUnknownPackage, got %v", err)
	}
}

func TestCheckoutCreatesPendingTransaction(t *testing.T) {
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	txn, err := h.repo.FindBySession(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusPending || txn.Status != payment.StatusInitiated {
		t.Fatalf("unexpected initial state: %+v", txn)
	}
	if txn.Amount != 50_000 {
		t.Fatalf("expected priced amount 50000, got %d", txn.Amount)
	}
}

func TestReconcilePaidCreditsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "medium")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
		Status:        payment.StatusCompleted,
	})

	txn, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusPaid || txn.Status != payment.StatusCompleted {
		t.Fatalf("expected paid/completed, got %+v", txn)
	}
	if h.ledger.count() != 1 {
		t.Fatalf("expected one credit, got %d", h.ledger.count())
	}

	// Second reconcile: cached result, no gateway call, no second credit.
	before := h.gateway.queries.Load()
	again, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1")
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if again.PaymentStatus != payment.PaymentStatusPaid {
		t.Fatalf("expected paid, got %+v", again)
	}
	if h.gateway.queries.Load() != before {
		t.Fatal("reconcile of a paid transaction must not query the gateway")
	}
	if h.ledger.count() != 1 {
		t.Fatalf("expected one credit after replay, got %d", h.ledger.count())
	}
}

func TestConcurrentReconcilesCreditOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
		Status:        payment.StatusCompleted,
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.svc.Reconcile(ctx, result.SessionID, "driver-1")
		}()
	}
	wg.Wait()

	if h.ledger.count() != 1 {
		t.Fatalf("expected exactly one credit, got %d", h.ledger.count())
	}
}

func TestReconcileUnknownSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Reconcile(context.Background(), "cs_missing", "driver-1")
	if !errors.Is(err, payment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReconcileScopedToOwner(t *testing.T) {
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	_, err := h.svc.Reconcile(context.Background(), result.SessionID, "owner-1")
	if !errors.Is(err, payment.ErrNotFound) {
		t.Fatalf("expected cross-user lookup to miss, got %v", err)
	}
}

func TestReconcileFailedStatusNoCredit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusFailed,
		Status:        payment.StatusFailed,
	})

	txn, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusFailed || txn.Status != payment.StatusFailed {
		t.Fatalf("expected failed/failed, got %+v", txn)
	}
	if h.ledger.count() != 0 {
		t.Fatalf("failed payment must not credit, got %d credits", h.ledger.count())
	}
}

func TestReconcileExpiredMapsToFailed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusExpired,
	})

	txn, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusExpired || txn.Status != payment.StatusFailed {
		t.Fatalf("expected expired/failed, got %+v", txn)
	}
}

func TestReconcileGatewayOutageLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.fail.Store(true)
	_, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1")
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	txn, _ := h.repo.FindBySession(ctx, result.SessionID)
	if txn.PaymentStatus != payment.PaymentStatusPending {
		t.Fatalf("outage must not change state, got %+v", txn)
	}

	// Outage over: the retry succeeds and credits normally.
	h.gateway.fail.Store(false)
	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
	})
	if _, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1"); err != nil {
		t.Fatalf("retry after outage: %v", err)
	}
	if h.ledger.count() != 1 {
		t.Fatalf("expected one credit after retry, got %d", h.ledger.count())
	}
}

func TestNonDriverTopupSettlesWithoutCredit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "owner-1", "medium")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
	})

	txn, err := h.svc.Reconcile(ctx, result.SessionID, "owner-1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusPaid {
		t.Fatalf("expected paid, got %+v", txn)
	}
	if h.ledger.count() != 0 {
		t.Fatalf("owner top-up must not credit a wallet, got %d credits", h.ledger.count())
	}
}

func webhookBody(t *testing.T, sessionID, status string) []byte {
	t.Helper()
	body, err := json.Marshal(payment.WebhookEvent{
		SessionID:     sessionID,
		PaymentStatus: status,
		EventType:     "checkout.session.completed",
	})
	if err != nil {
		t.Fatalf("marshal webhook: %v", err)
	}
	return body
}

func TestWebhookCreditsOnPaid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	body := webhookBody(t, result.SessionID, payment.PaymentStatusPaid)
	txn, err := h.svc.HandleWebhook(ctx, body, h.gateway.Sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusPaid {
		t.Fatalf("expected paid, got %+v", txn)
	}
	if h.ledger.count() != 1 {
		t.Fatalf("expected one credit, got %d", h.ledger.count())
	}
}

func TestWebhookInvalidSignatureChangesNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	body := webhookBody(t, result.SessionID, payment.PaymentStatusPaid)
	_, err := h.svc.HandleWebhook(ctx, body, "deadbeef")
	if !errors.Is(err, payment.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	txn, _ := h.repo.FindBySession(ctx, result.SessionID)
	if txn.PaymentStatus != payment.PaymentStatusPending {
		t.Fatalf("forged webhook must not change state, got %+v", txn)
	}
	if h.ledger.count() != 0 {
		t.Fatalf("forged webhook must not credit, got %d", h.ledger.count())
	}
}

func TestWebhookThenPollCreditsOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
	})

	body := webhookBody(t, result.SessionID, payment.PaymentStatusPaid)
	if _, err := h.svc.HandleWebhook(ctx, body, h.gateway.Sign(body)); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if _, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1"); err != nil {
		t.Fatalf("poll after webhook: %v", err)
	}

	if h.ledger.count() != 1 {
		t.Fatalf("webhook then poll must credit once, got %d", h.ledger.count())
	}
}

func TestPaidIsTerminal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	result := h.checkout(t, "driver-1", "small")

	h.gateway.SetStatus(result.SessionID, payment.SessionStatus{
		PaymentStatus: payment.PaymentStatusPaid,
	})
	if _, err := h.svc.Reconcile(ctx, result.SessionID, "driver-1"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// A late contradictory webhook cannot downgrade a settled transaction.
	body := webhookBody(t, result.SessionID, payment.PaymentStatusFailed)
	txn, err := h.svc.HandleWebhook(ctx, body, h.gateway.Sign(body))
	if err != nil {
		t.Fatalf("late webhook: %v", err)
	}
	if txn.PaymentStatus != payment.PaymentStatusPaid {
		t.Fatalf("paid must be terminal, got %+v", txn)
	}
}

func TestTransitionIsConditionalInStore(t *testing.T) {
	ctx := context.Background()
	repo := payment.NewMemoryRepository()
	now := time.Now().UTC()
	if err := repo.Create(ctx, payment.Transaction{
		ID:            "t-1",
		UserID:        "driver-1",
		SessionID:     "cs_1",
		Amount:        100,
		Currency:      "inr",
		PaymentStatus: payment.PaymentStatusPending,
		Status:        payment.StatusInitiated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	applied, err := repo.Transition(ctx, "cs_1", payment.PaymentStatusPaid, payment.StatusCompleted, now)
	if err != nil || !applied {
		t.Fatalf("first transition should apply: applied=%v err=%v", applied, err)
	}
	applied, err = repo.Transition(ctx, "cs_1", payment.PaymentStatusPaid, payment.StatusCompleted, now)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}
	if applied {
		t.Fatal("second transition into paid must not apply")
	}
}
