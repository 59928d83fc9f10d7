package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/notification"
)

// WalletCrediter is the slice of the ledger the reconciler needs: apply a
// settled top-up to a driver's wallet.
type WalletCrediter interface {
	Credit(ctx context.Context, driverID string, amount int64) (int64, error)
}

// UserDirectory resolves transaction owners so credits only reach driver wallets.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// Service reconciles payment provider state onto stored transactions and
// triggers the at-most-once wallet credit when a session settles.
type Service struct {
	repo     Repository
	gateway  Gateway
	ledger   WalletCrediter
	users    UserDirectory
	packages map[string]int64
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds a payment service. packages is the top-up price table in paise.
func NewService(repo Repository, gateway Gateway, ledger WalletCrediter, users UserDirectory,
	packages map[string]int64, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		ledger:   ledger,
		users:    users,
		packages: packages,
		notifier: notifier,
		logger:   logger,
	}
}

// CheckoutResult carries the hosted checkout handle back to the client.
type CheckoutResult struct {
	SessionID string      `json:"session_id"`
	URL       string      `json:"url"`
	Txn       Transaction `json:"transaction"`
}

// Checkout opens a gateway session for a named top-up package and records
// the pending transaction. The amount comes from the configured price table,
// never from the client.
func (s *Service) Checkout(ctx context.Context, userID, packageName string) (CheckoutResult, error) {
	amount, ok := s.packages[packageName]
	if !ok {
		return CheckoutResult{}, fmt.Errorf("%w: %q", ErrUnknownPackage, packageName)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return CheckoutResult{}, err
	}

	session, err := s.gateway.CreateSession(ctx, amount, "inr", map[string]string{
		"user_id": user.ID,
		"package": packageName,
		"role":    user.Role,
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	now := time.Now().UTC()
	txn := Transaction{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		SessionID:     session.SessionID,
		Amount:        amount,
		Currency:      "inr",
		Package:       packageName,
		PaymentStatus: PaymentStatusPending,
		Status:        StatusInitiated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{SessionID: session.SessionID, URL: session.URL, Txn: txn}, nil
}

// Reconcile polls the gateway for the session's current status and applies
// the resulting transition.
//
// A transaction already stored as paid is returned as-is: no gateway call,
// no credit. Otherwise the new status is persisted through the repository's
// conditional transition, and the wallet credit fires only when this call is
// the one that moved the transaction into paid. Two concurrent reconciles of
// one session therefore credit exactly once: the storage condition, not a
// re-read here, decides the winner.
func (s *Service) Reconcile(ctx context.Context, sessionID, userID string) (Transaction, error) {
	txn, err := s.repo.GetBySession(ctx, sessionID, userID)
	if err != nil {
		return Transaction{}, err
	}
	if txn.PaymentStatus == PaymentStatusPaid {
		return txn, nil
	}

	status, err := s.gateway.QueryStatus(ctx, sessionID)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return s.apply(ctx, txn, status.PaymentStatus)
}

// HandleWebhook applies a pushed status notification. The gateway verifies
// authenticity; a bad signature changes nothing and is logged as a
// security-relevant event. The credit guard is the same conditional
// transition used by polling, so a webhook racing a poll still credits once.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (Transaction, error) {
	event, err := s.gateway.ParseWebhook(body, signature)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("rejected payment webhook", "error", err)
		}
		return Transaction{}, err
	}

	txn, err := s.repo.FindBySession(ctx, event.SessionID)
	if err != nil {
		return Transaction{}, err
	}
	if txn.PaymentStatus == PaymentStatusPaid {
		return txn, nil
	}

	return s.apply(ctx, txn, event.PaymentStatus)
}

// apply persists the new status and performs the at-most-once credit.
func (s *Service) apply(ctx context.Context, txn Transaction, paymentStatus string) (Transaction, error) {
	applied, err := s.repo.Transition(ctx, txn.SessionID, paymentStatus, CoarseStatus(paymentStatus), time.Now().UTC())
	if err != nil {
		return Transaction{}, err
	}

	if applied && paymentStatus == PaymentStatusPaid {
		if err := s.credit(ctx, txn); err != nil {
			return Transaction{}, err
		}
	}

	return s.repo.FindBySession(ctx, txn.SessionID)
}

func (s *Service) credit(ctx context.Context, txn Transaction) error {
	user, err := s.users.FindByID(ctx, txn.UserID)
	if err != nil {
		return err
	}
	if user.Role != identity.RoleDriver {
		// Fleet owner top-ups settle without a wallet credit.
		return nil
	}

	balance, err := s.ledger.Credit(ctx, user.ID, txn.Amount)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("wallet credit failed after paid transition",
				"session_id", txn.SessionID, "driver_id", user.ID, "amount", txn.Amount, "error", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Info("wallet credited",
			"session_id", txn.SessionID, "driver_id", user.ID, "amount", txn.Amount, "balance", balance)
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWalletCredit,
			Destination: user.ID,
			Body:        fmt.Sprintf("Wallet credited with %d", txn.Amount),
		})
	}
	return nil
}
