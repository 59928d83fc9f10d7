package performance

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes driver performance endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a performance HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the authenticated driver's performance record.
func (h *Handler) Get(c *fiber.Ctx) error {
	driverID, _ := c.Locals("user_id").(string)

	record, err := h.service.GetByDriver(c.UserContext(), driverID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(record)
}
