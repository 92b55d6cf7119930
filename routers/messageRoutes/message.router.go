package messageRoutes

import (
	"fixdesk/chat"
	messageControllers "fixdesk/controllers/message"
	"fixdesk/middleware"
	messageValidators "fixdesk/validators/message"

	"github.com/gofiber/fiber/v2"
)

// SetupMessageRoutes mounts the one-shot chat endpoints. They share the
// delivery pipeline with the socket layer, so both entry points enforce
// identical authorization and persistence semantics.
func SetupMessageRoutes(app *fiber.App, pipeline *chat.Pipeline) {
	messages := app.Group("/api/messages", middleware.JWTMiddleware)

	messages.Get("/ticket/:ticketId", messageControllers.GetTicketMessages(pipeline))
	messages.Post("/ticket/:ticketId", messageValidators.SendMessage(), messageControllers.SendMessage(pipeline))
	messages.Patch("/ticket/:ticketId/read", messageControllers.MarkMessagesRead(pipeline))
}
