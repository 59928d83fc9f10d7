package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/expense"
)

// RegisterExpenseRoutes wires expense posting and listing.
func RegisterExpenseRoutes(r fiber.Router, h *expense.Handler) {
	r.Post("/expenses", h.Post)
	r.Get("/expenses", h.List)
}
