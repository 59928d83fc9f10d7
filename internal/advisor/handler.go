package advisor

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the route advisor endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds an advisor HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type optimizeRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Cargo       string `json:"cargo,omitempty"`
}

// Optimize returns route advice for a planned haul.
func (h *Handler) Optimize(c *fiber.Ctx) error {
	var req optimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	suggestion, err := h.service.OptimizeRoute(c.UserContext(), req.Origin, req.Destination, req.Cargo)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(suggestion)
}
