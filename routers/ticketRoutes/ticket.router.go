package ticketRoutes

import (
	ticketControllers "fixdesk/controllers/ticket"
	"fixdesk/middleware"
	"fixdesk/models"
	ticketValidators "fixdesk/validators/ticket"

	"github.com/gofiber/fiber/v2"
)

func SetupTicketRoutes(app *fiber.App) {
	tickets := app.Group("/api/tickets", middleware.JWTMiddleware)

	tickets.Post("/", ticketValidators.CreateTicket(), ticketControllers.CreateTicket)
	tickets.Get("/history", ticketControllers.ReporterHistory)
	tickets.Get("/", middleware.RequireRole(models.RoleServiceDesk, models.RoleAdmin), ticketControllers.AllTickets)
	tickets.Patch("/:id/assign",
		middleware.RequireRole(models.RoleServiceDesk, models.RoleAdmin),
		ticketValidators.AssignTicket(),
		ticketControllers.AssignTicket)
	tickets.Patch("/:id/status",
		middleware.RequireRole(models.RoleServiceDesk, models.RoleAdmin),
		ticketValidators.UpdateStatus(),
		ticketControllers.UpdateTicketStatus)
}
