package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Get)
	r.Put("/wallet/:driverId/limits", h.UpdateLimits)
}
