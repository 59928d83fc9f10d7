package payment

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes payment HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a payment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkoutRequest struct {
	Package string `json:"package"`
}

// Checkout opens a hosted checkout session for a top-up package.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Checkout(c.UserContext(), userID, req.Package)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPackage):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrGatewayUnavailable):
			return fiber.NewError(http.StatusBadGateway, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"session_id": result.SessionID,
		"url":        result.URL,
	})
}

// Status reconciles and returns the current state of a checkout session.
func (h *Handler) Status(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	txn, err := h.service.Reconcile(c.UserContext(), c.Params("sessionId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrGatewayUnavailable):
			return fiber.NewError(http.StatusBadGateway, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(txn)
}

// Webhook ingests push notifications from the payment provider.
func (h *Handler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("X-Payment-Signature")

	txn, err := h.service.HandleWebhook(c.UserContext(), c.Body(), signature)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":     "ok",
		"session_id": txn.SessionID,
	})
}
