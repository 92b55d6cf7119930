package officeRoutes

import (
	officeControllers "fixdesk/controllers/office"
	"fixdesk/middleware"
	"fixdesk/models"
	officeValidators "fixdesk/validators/office"

	"github.com/gofiber/fiber/v2"
)

func SetupOfficeRoutes(app *fiber.App) {
	offices := app.Group("/api/offices", middleware.JWTMiddleware)

	offices.Get("/", officeControllers.ListOffices)
	offices.Post("/", middleware.RequireRole(models.RoleAdmin), officeValidators.CreateOffice(), officeControllers.CreateOffice)
}
