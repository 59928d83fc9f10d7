package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// CheckoutSession is the gateway's handle for a hosted checkout page.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// SessionStatus is the gateway's view of a checkout session.
type SessionStatus struct {
	PaymentStatus string
	Status        string
}

// WebhookEvent is a push notification from the gateway, already
// authenticated by ParseWebhook.
type WebhookEvent struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	EventType     string `json:"event_type"`
}

// Gateway represents the external payment provider. Session creation,
// status polling and webhook verification all happen on the provider side;
// the reconciler only consumes the results.
type Gateway interface {
	CreateSession(ctx context.Context, amount int64, currency string, metadata map[string]string) (CheckoutSession, error)
	QueryStatus(ctx context.Context, sessionID string) (SessionStatus, error)
	ParseWebhook(body []byte, signature string) (WebhookEvent, error)
}

// StaticGateway simulates the payment provider for tests and database-less
// development. Sessions start pending; SetStatus scripts the provider's
// answer. Webhooks are authenticated with an HMAC-SHA256 hex signature over
// the raw body.
type StaticGateway struct {
	mu       sync.RWMutex
	sessions map[string]SessionStatus
	secret   []byte
}

// NewStaticGateway constructs a simulated gateway with the given webhook secret.
func NewStaticGateway(webhookSecret string) *StaticGateway {
	return &StaticGateway{
		sessions: make(map[string]SessionStatus),
		secret:   []byte(webhookSecret),
	}
}

// CreateSession registers a pending session with a synthetic checkout URL.
func (g *StaticGateway) CreateSession(_ context.Context, amount int64, currency string, _ map[string]string) (CheckoutSession, error) {
	if amount <= 0 {
		return CheckoutSession{}, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		return CheckoutSession{}, fmt.Errorf("currency is required")
	}

	sessionID := "cs_" + uuid.NewString()

	g.mu.Lock()
	g.sessions[sessionID] = SessionStatus{PaymentStatus: PaymentStatusPending, Status: StatusInitiated}
	g.mu.Unlock()

	return CheckoutSession{
		SessionID: sessionID,
		URL:       "https://pay.example.com/checkout/" + sessionID,
	}, nil
}

// QueryStatus returns the scripted status for a session.
func (g *StaticGateway) QueryStatus(_ context.Context, sessionID string) (SessionStatus, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	status, ok := g.sessions[sessionID]
	if !ok {
		return SessionStatus{}, fmt.Errorf("unknown session %s", sessionID)
	}
	return status, nil
}

// ParseWebhook verifies the HMAC signature and decodes the event.
func (g *StaticGateway) ParseWebhook(body []byte, signature string) (WebhookEvent, error) {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, expected) {
		return WebhookEvent{}, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode webhook body: %w", err)
	}
	if event.SessionID == "" || event.PaymentStatus == "" {
		return WebhookEvent{}, fmt.Errorf("webhook missing session_id or payment_status")
	}
	return event, nil
}

// SetStatus scripts the provider-side status of a session.
func (g *StaticGateway) SetStatus(sessionID string, status SessionStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sessionID] = status
}

// Sign produces the webhook signature for a raw body. Test helper mirroring
// what the real provider attaches to push notifications.
func (g *StaticGateway) Sign(body []byte) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
