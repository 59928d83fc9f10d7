package dashboard

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
)

// Handler exposes dashboard HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a dashboard HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Stats returns the rollup matching the caller's role.
func (h *Handler) Stats(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	switch role {
	case identity.RoleFleetOwner:
		stats, err := h.service.OwnerStats(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(stats)
	case identity.RoleDriver:
		stats, err := h.service.DriverStats(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(stats)
	default:
		return fiber.NewError(http.StatusForbidden, "unknown role")
	}
}
