package ticketValidators

import (
	"strings"

	"fixdesk/middleware"
	"fixdesk/models"

	"github.com/gofiber/fiber/v2"
)

type LocationPayload struct {
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

type MediaPayload struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type CreateTicketRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Office      uint            `json:"office"`
	Workstation *string         `json:"workstation"`
	Location    LocationPayload `json:"location"`
	Media       []MediaPayload  `json:"media"`
	Priority    *string         `json:"priority"`
}

type AssignTicketRequest struct {
	UserID *uint `json:"userId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func CreateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 200 {
			errors["title"] = "Title must not exceed 200 characters!"
		}

		reqData.Description = strings.TrimSpace(reqData.Description)
		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		}

		if len(reqData.Location.Coordinates) != 2 {
			errors["location"] = "Location coordinates are required!"
		}

		for _, item := range reqData.Media {
			if item.Type != "image" && item.Type != "video" {
				errors["media"] = "Media type must be image or video!"
				break
			}
		}

		if reqData.Priority != nil && !models.ValidPriority(*reqData.Priority) {
			errors["priority"] = "Invalid priority! Allowed: low, medium, high, critical"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTicket", reqData)
		return c.Next()
	}
}

func AssignTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssignTicketRequest)

		// Empty body means self-assignment
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("validatedAssign", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !models.ValidStatus(reqData.Status) {
			errors["status"] = "Invalid status! Allowed: open, assigned, in-progress, closed"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}
