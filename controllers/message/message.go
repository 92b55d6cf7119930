package messageControllers

import (
	"errors"
	"log"

	"fixdesk/chat"
	"fixdesk/middleware"
	messageValidators "fixdesk/validators/message"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx reads the identity JWTMiddleware resolved for this request.
func actorFromCtx(c *fiber.Ctx) (chat.Actor, bool) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return chat.Actor{}, false
	}
	role, _ := c.Locals("userRole").(string)
	return chat.Actor{ID: userId, Role: role}, true
}

// respondChatError maps the chat error taxonomy onto the response envelope.
// Store failures answer with a generic message; the cause is logged only.
func respondChatError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *chat.ValidationError
	if errors.As(err, &validationErr) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Msg, nil)
	}
	var notFoundErr *chat.NotFoundError
	if errors.As(err, &notFoundErr) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, notFoundErr.Resource+" not found", nil)
	}
	var forbiddenErr *chat.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, forbiddenErr.Msg, nil)
	}

	log.Printf("message: %s: %v", fallback, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
}

// GetTicketMessages returns the ordered thread for a ticket; opening it marks
// the counterpart's messages read.
func GetTicketMessages(pipeline *chat.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		ticketId, err := c.ParamsInt("ticketId")
		if err != nil || ticketId <= 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
		}

		messages, err := pipeline.History(actor, uint(ticketId))
		if err != nil {
			return respondChatError(c, err, "Error fetching messages")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"count":   len(messages),
			"data":    fiber.Map{"messages": messages},
		})
	}
}

// SendMessage posts to the thread through the same pipeline the socket uses.
func SendMessage(pipeline *chat.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		ticketId, err := c.ParamsInt("ticketId")
		if err != nil || ticketId <= 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
		}

		reqData, ok := c.Locals("validatedMessage").(*messageValidators.SendMessageRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		message, err := pipeline.Send(actor, uint(ticketId), reqData.Content)
		if err != nil {
			return respondChatError(c, err, "Error sending message")
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully", fiber.Map{
			"message": message,
		})
	}
}

// MarkMessagesRead is the standalone "I have seen this thread" action.
func MarkMessagesRead(pipeline *chat.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		ticketId, err := c.ParamsInt("ticketId")
		if err != nil || ticketId <= 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
		}

		if err := pipeline.MarkRead(actor, uint(ticketId)); err != nil {
			return respondChatError(c, err, "Error marking messages as read")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages marked as read", nil)
	}
}
