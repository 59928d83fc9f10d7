package expense

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/wallet"
)

// Handler exposes expense HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an expense HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type postRequest struct {
	TripID      string `json:"trip_id"`
	DriverID    string `json:"driver_id"`
	Category    string `json:"category"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type rejectionResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Ceiling  int64  `json:"ceiling"`
}

// Post records one spend event against a trip and the driver's wallet.
func (h *Handler) Post(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	driverID := req.DriverID
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	if role == identity.RoleDriver || driverID == "" {
		// Drivers always spend from their own wallet.
		driverID = userID
	}

	e, err := h.service.Post(c.UserContext(), PostInput{
		TripID:      req.TripID,
		DriverID:    driverID,
		ActorID:     userID,
		ActorRole:   role,
		Category:    wallet.Category(req.Category),
		Amount:      req.Amount,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		var rejection *wallet.Rejection
		switch {
		case errors.As(err, &rejection):
			reason := "limit_exceeded"
			if errors.Is(rejection.Reason, wallet.ErrInsufficientBalance) {
				reason = "insufficient_balance"
			}
			return c.Status(http.StatusBadRequest).JSON(rejectionResponse{
				Error:    rejection.Error(),
				Reason:   reason,
				Category: string(rejection.Category),
				Amount:   rejection.Amount,
				Ceiling:  rejection.Ceiling,
			})
		case errors.Is(err, wallet.ErrNotFound), errors.Is(err, trip.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, trip.ErrNotParticipant):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, wallet.ErrInsufficientBalance):
			// Lost the balance race at the conditional debit.
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(e)
}

// List returns expenses scoped to the authenticated user.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	expenses, err := h.service.ListFor(c.UserContext(), userID, role, c.Query("trip_id"))
	if err != nil {
		return err
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	return c.Status(http.StatusOK).JSON(expenses)
}
