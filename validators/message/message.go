package messageValidators

import (
	"strings"

	"fixdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

func SendMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SendMessageRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Content = strings.TrimSpace(reqData.Content)
		if reqData.Content == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message content is required", nil)
		}

		c.Locals("validatedMessage", reqData)
		return c.Next()
	}
}
