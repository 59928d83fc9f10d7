package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/performance"
	"github.com/transops/transops/internal/wallet"
)

// Handler exposes registration and login endpoints. Registration also
// provisions the driver-side records: a zero-balance wallet with default
// limits and a fresh performance sheet.
type Handler struct {
	users       *identity.Service
	tokens      *TokenService
	wallets     *wallet.Service
	performance *performance.Service
	logger      *slog.Logger
}

// NewHandler builds an auth HTTP handler.
func NewHandler(users *identity.Service, tokens *TokenService, wallets *wallet.Service,
	perf *performance.Service, logger *slog.Logger) *Handler {
	return &Handler{
		users:       users,
		tokens:      tokens,
		wallets:     wallets,
		performance: perf,
		logger:      logger,
	}
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	FleetOwnerID string `json:"fleet_owner_id,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	FleetOwnerID string `json:"fleet_owner_id,omitempty"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Phone:        u.Phone,
		FleetOwnerID: u.FleetOwnerID,
	}
}

// Register creates an account and, for drivers, the wallet and performance records.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.UserContext(), identity.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
		FleetOwnerID: req.FleetOwnerID,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if user.Role == identity.RoleDriver {
		h.provisionDriver(c.UserContext(), user.ID)
	}

	token, err := h.tokens.Mint(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// provisionDriver creates the wallet and performance records. Failures are
// logged, not fatal: the account exists and the records can be backfilled.
func (h *Handler) provisionDriver(ctx context.Context, driverID string) {
	if _, err := h.wallets.Provision(ctx, driverID); err != nil && h.logger != nil {
		h.logger.Error("wallet provisioning failed", "driver_id", driverID, "error", err)
	}
	if _, err := h.performance.Provision(ctx, driverID); err != nil && h.logger != nil {
		h.logger.Error("performance provisioning failed", "driver_id", driverID, "error", err)
	}
}

// Login authenticates credentials and issues a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Authenticate(c.UserContext(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	token, err := h.tokens.Mint(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(identity.User)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}
