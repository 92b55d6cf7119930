package ticketControllers

import (
	"encoding/json"
	"log"
	"time"

	"fixdesk/database"
	"fixdesk/middleware"
	"fixdesk/models"
	"fixdesk/utils"
	ticketValidators "fixdesk/validators/ticket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func CreateTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTicket").(*ticketValidators.CreateTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var reporter models.User
	if err := db.First(&reporter, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	officeID := reqData.Office
	if officeID == 0 {
		if reporter.PreferredOfficeID == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Office is required. Please select an office or set a preferred office in your profile.", nil)
		}
		officeID = *reporter.PreferredOfficeID
	}

	if err := db.First(&models.Office{}, officeID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Selected office does not exist. Please select a valid office.", nil)
	}

	workstation := reporter.PreferredWorkstation
	if reqData.Workstation != nil {
		workstation = *reqData.Workstation
	}

	priority := models.PriorityMedium
	if reqData.Priority != nil {
		priority = *reqData.Priority
	}

	media := make([]models.MediaItem, 0, len(reqData.Media))
	for _, item := range reqData.Media {
		media = append(media, models.MediaItem{URL: item.URL, Type: item.Type, UploadedAt: time.Now()})
	}

	// Best-effort analysis of the first image attachment; a failure never
	// blocks ticket creation.
	var analysis *models.AIAnalysis
	if len(media) > 0 && media[0].Type == "image" && media[0].URL != "" {
		analysis = utils.AnalyzeTicketImage(media[0].URL)
	}

	locationJSON, _ := json.Marshal(models.Location{
		Coordinates: reqData.Location.Coordinates,
		Address:     reqData.Location.Address,
	})
	mediaJSON, _ := json.Marshal(media)

	ticket := models.Ticket{
		Title:       reqData.Title,
		Description: reqData.Description,
		ReporterID:  reporter.ID,
		OfficeID:    officeID,
		Workstation: workstation,
		Status:      models.StatusOpen,
		Priority:    priority,
		Location:    datatypes.JSON(locationJSON),
		Media:       datatypes.JSON(mediaJSON),
	}
	if analysis != nil {
		analysisJSON, _ := json.Marshal(analysis)
		ticket.AIAnalysis = datatypes.JSON(analysisJSON)
	}

	if err := db.Create(&ticket).Error; err != nil {
		log.Printf("Error creating ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error creating ticket", nil)
	}

	if err := db.Preload("Reporter").Preload("Office").First(&ticket, ticket.ID).Error; err != nil {
		log.Printf("Error loading created ticket: %v", err)
	}
	ticket.Reporter.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Ticket created successfully", fiber.Map{
		"ticket": ticket,
	})
}

func ReporterHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var tickets []models.Ticket
	err := database.Database.Db.
		Preload("AssignedTo").Preload("Office").
		Where("reporter_id = ?", userId).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching tickets", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
	})
}

func AllTickets(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Ticket{})

	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status filter!", nil)
		}
		db = db.Where("status = ?", status)
	}

	var tickets []models.Ticket
	err := db.Preload("Reporter").Preload("AssignedTo").Preload("Office").
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching tickets", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
	})
}

func AssignTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ticketId, err := c.ParamsInt("id")
	if err != nil || ticketId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
	}

	reqData, ok := c.Locals("validatedAssign").(*ticketValidators.AssignTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var assigneeID uint
	if reqData.UserID != nil {
		var target models.User
		if err := db.First(&target, *reqData.UserID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		if target.Role != models.RoleServiceDesk {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Tickets can only be assigned to service desk users", nil)
		}
		assigneeID = target.ID
	} else {
		assigneeID = userId
	}

	var ticket models.Ticket
	if err := db.First(&ticket, ticketId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
	}

	ticket.AssignedToID = &assigneeID
	ticket.Status = models.StatusAssigned
	if err := db.Save(&ticket).Error; err != nil {
		log.Printf("Error assigning ticket %d: %v", ticket.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error assigning ticket", nil)
	}

	if err := db.Preload("Reporter").Preload("AssignedTo").Preload("Office").First(&ticket, ticket.ID).Error; err != nil {
		log.Printf("Error loading assigned ticket: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket assigned successfully", fiber.Map{
		"ticket": ticket,
	})
}

func UpdateTicketStatus(c *fiber.Ctx) error {
	ticketId, err := c.ParamsInt("id")
	if err != nil || ticketId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
	}

	reqData, ok := c.Locals("validatedStatus").(*ticketValidators.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var ticket models.Ticket
	if err := db.First(&ticket, ticketId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found", nil)
	}

	// Assignment state is the source of truth for chat permissions; a status
	// that implies an assignee cannot be set without one.
	if (reqData.Status == models.StatusAssigned || reqData.Status == models.StatusInProgress) &&
		ticket.AssignedToID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Ticket must have an assignee before it can be marked "+reqData.Status, nil)
	}

	ticket.Status = reqData.Status
	if reqData.Status == models.StatusClosed {
		now := time.Now()
		ticket.ClosedAt = &now
	}

	if err := db.Save(&ticket).Error; err != nil {
		log.Printf("Error updating ticket %d status: %v", ticket.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error updating ticket status", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket status updated successfully", fiber.Map{
		"ticket": ticket,
	})
}
