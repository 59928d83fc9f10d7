package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/payment"
)

// RegisterPaymentRoutes wires wallet top-up endpoints. The webhook is wired
// separately on the public surface.
func RegisterPaymentRoutes(r fiber.Router, h *payment.Handler) {
	r.Post("/payments/checkout", h.Checkout)
	r.Get("/payments/:sessionId/status", h.Status)
}
