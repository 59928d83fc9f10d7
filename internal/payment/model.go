package payment

import (
	"errors"
	"time"
)

// Payment provider statuses for a checkout session.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// Coarser transaction lifecycle states.
const (
	StatusInitiated = "initiated"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	// ErrNotFound indicates no transaction matches the session for the caller.
	ErrNotFound = errors.New("transaction not found")

	// ErrGatewayUnavailable indicates the payment gateway query failed; the
	// transaction is left untouched and the whole reconcile may be retried.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidSignature indicates a webhook failed authenticity checks.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnknownPackage indicates a checkout referenced a package not in the
	// configured price table.
	ErrUnknownPackage = errors.New("unknown top-up package")
)

// Transaction records one checkout attempt. payment_status transitions
// pending -> paid | failed | expired; paid is terminal and is the single
// trigger point for crediting the owner's wallet.
type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SessionID     string    `json:"session_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Package       string    `json:"package,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CoarseStatus derives the coarse lifecycle state from a provider payment status.
func CoarseStatus(paymentStatus string) string {
	switch paymentStatus {
	case PaymentStatusPaid:
		return StatusCompleted
	case PaymentStatusFailed, PaymentStatusExpired:
		return StatusFailed
	default:
		return StatusInitiated
	}
}
