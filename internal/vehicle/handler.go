package vehicle

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
)

// Handler exposes vehicle HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a vehicle HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Registration string  `json:"registration_number"`
	Model        string  `json:"model"`
	CapacityTons float64 `json:"capacity_tons"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Create registers a vehicle in the caller's fleet. Fleet owners only.
func (h *Handler) Create(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleFleetOwner {
		return fiber.NewError(http.StatusForbidden, "only fleet owners can register vehicles")
	}
	ownerID, _ := c.Locals("user_id").(string)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	v, err := h.service.Register(c.UserContext(), CreateInput{
		OwnerID:      ownerID,
		Registration: req.Registration,
		Model:        req.Model,
		CapacityTons: req.CapacityTons,
	})
	if err != nil {
		if errors.Is(err, ErrPlateTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(v)
}

// List returns the caller's fleet.
func (h *Handler) List(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)

	vehicles, err := h.service.ListByOwner(c.UserContext(), ownerID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(vehicles)
}

// UpdateStatus moves a vehicle between lifecycle states.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleFleetOwner {
		return fiber.NewError(http.StatusForbidden, "only fleet owners can update vehicles")
	}
	ownerID, _ := c.Locals("user_id").(string)

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	v, err := h.service.SetStatus(c.UserContext(), ownerID, c.Params("vehicleId"), req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(v)
}
