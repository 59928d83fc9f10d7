package trip

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
)

// Handler exposes trip HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a trip HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	DriverID          string  `json:"driver_id"`
	VehicleID         string  `json:"vehicle_id"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	CargoDetails      string  `json:"cargo_details"`
	EstimatedDistance float64 `json:"estimated_distance"`
}

// Create records a planned trip for the authenticated fleet owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleFleetOwner {
		return fiber.NewError(http.StatusForbidden, "only fleet owners can create trips")
	}
	ownerID, _ := c.Locals("user_id").(string)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	t, err := h.service.Create(c.UserContext(), CreateInput{
		FleetOwnerID:      ownerID,
		DriverID:          req.DriverID,
		VehicleID:         req.VehicleID,
		Origin:            req.Origin,
		Destination:       req.Destination,
		CargoDetails:      req.CargoDetails,
		EstimatedDistance: req.EstimatedDistance,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(t)
}

// List returns trips scoped to the authenticated user.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	trips, err := h.service.ListFor(c.UserContext(), userID, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(trips)
}

// Get returns a single trip.
func (h *Handler) Get(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), c.Params("tripId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(t)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus transitions a trip's lifecycle state.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	to, ok := ParseStatus(req.Status)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "unknown status")
	}

	t, err := h.service.Transition(c.UserContext(), userID, c.Params("tripId"), to)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParticipant):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrUpdateConflict):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(t)
}
