package returnload

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
)

// Handler exposes return load HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a return load HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CargoType   string  `json:"cargo_type"`
	WeightTons  float64 `json:"weight_tons"`
	Price       int64   `json:"price"`
}

// Create lists a new return load.
func (h *Handler) Create(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleFleetOwner {
		return fiber.NewError(http.StatusForbidden, "only fleet owners can post return loads")
	}
	userID, _ := c.Locals("user_id").(string)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	load, err := h.service.Post(c.UserContext(), CreateInput{
		PostedBy:    userID,
		Origin:      req.Origin,
		Destination: req.Destination,
		CargoType:   req.CargoType,
		WeightTons:  req.WeightTons,
		Price:       req.Price,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(load)
}

// List returns open listings, filtered by the destination query parameter.
func (h *Handler) List(c *fiber.Ctx) error {
	loads, err := h.service.Search(c.UserContext(), c.Query("destination"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loads)
}

// Book claims a load for the authenticated driver.
func (h *Handler) Book(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != identity.RoleDriver {
		return fiber.NewError(http.StatusForbidden, "only drivers can book return loads")
	}
	driverID, _ := c.Locals("user_id").(string)

	load, err := h.service.Book(c.UserContext(), driverID, c.Params("loadId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyBooked):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(load)
}
