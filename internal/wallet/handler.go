package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type limitsRequest struct {
	Fuel    *int64 `json:"fuel_limit"`
	Toll    *int64 `json:"toll_limit"`
	Food    *int64 `json:"food_limit"`
	Lodging *int64 `json:"lodging_limit"`
	Repair  *int64 `json:"repair_limit"`
}

// Get returns the authenticated driver's wallet.
func (h *Handler) Get(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleDriver {
		return fiber.NewError(http.StatusForbidden, "only drivers have wallets")
	}
	driverID, _ := c.Locals("user_id").(string)

	w, err := h.service.GetByDriver(c.UserContext(), driverID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(w)
}

// UpdateLimits lets a fleet owner adjust a driver's category limits.
func (h *Handler) UpdateLimits(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleFleetOwner {
		return fiber.NewError(http.StatusForbidden, "only fleet owners can update limits")
	}

	var req limitsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	for _, limit := range []*int64{req.Fuel, req.Toll, req.Food, req.Lodging, req.Repair} {
		if limit != nil && *limit < 0 {
			return fiber.NewError(http.StatusBadRequest, "limits must be non-negative")
		}
	}

	w, err := h.service.UpdateLimits(c.UserContext(), c.Params("driverId"), LimitsPatch{
		Fuel:    req.Fuel,
		Toll:    req.Toll,
		Food:    req.Food,
		Lodging: req.Lodging,
		Repair:  req.Repair,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(w)
}
