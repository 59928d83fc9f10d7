package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/returnload"
	"github.com/transops/transops/internal/vehicle"
)

// RegisterFleetRoutes wires vehicle, driver roster and return load endpoints.
func RegisterFleetRoutes(r fiber.Router, vehicles *vehicle.Handler, loads *returnload.Handler, users *identity.Service) {
	r.Post("/vehicles", vehicles.Create)
	r.Get("/vehicles", vehicles.List)
	r.Put("/vehicles/:vehicleId/status", vehicles.UpdateStatus)

	r.Get("/drivers", func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != identity.RoleFleetOwner {
			return fiber.NewError(http.StatusForbidden, "only fleet owners can list drivers")
		}
		ownerID, _ := c.Locals("user_id").(string)

		drivers, err := users.ListDrivers(c.UserContext(), ownerID)
		if err != nil {
			return err
		}
		out := make([]fiber.Map, 0, len(drivers))
		for _, driver := range drivers {
			out = append(out, fiber.Map{
				"id":    driver.ID,
				"email": driver.Email,
				"name":  driver.Name,
				"phone": driver.Phone,
			})
		}
		return c.Status(http.StatusOK).JSON(out)
	})

	r.Post("/return-loads", loads.Create)
	r.Get("/return-loads", loads.List)
	r.Post("/return-loads/:loadId/book", loads.Book)
}
