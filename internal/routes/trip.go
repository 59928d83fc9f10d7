package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/trip"
)

// RegisterTripRoutes wires trip lifecycle endpoints.
func RegisterTripRoutes(r fiber.Router, h *trip.Handler) {
	r.Post("/trips", h.Create)
	r.Get("/trips", h.List)
	r.Get("/trips/:tripId", h.Get)
	r.Put("/trips/:tripId/status", h.UpdateStatus)
}
