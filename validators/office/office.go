package officeValidators

import (
	"strings"

	"fixdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateOfficeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func CreateOffice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOfficeRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOffice", reqData)
		return c.Next()
	}
}
