package officeControllers

import (
	"log"

	"fixdesk/database"
	"fixdesk/middleware"
	"fixdesk/models"
	officeValidators "fixdesk/validators/office"

	"github.com/gofiber/fiber/v2"
)

func CreateOffice(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOffice").(*officeValidators.CreateOfficeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	office := models.Office{
		Name:    reqData.Name,
		Address: reqData.Address,
	}

	if err := database.Database.Db.Create(&office).Error; err != nil {
		log.Printf("Error creating office: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error creating office", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Office created successfully", fiber.Map{
		"office": office,
	})
}

func ListOffices(c *fiber.Ctx) error {
	var offices []models.Office
	if err := database.Database.Db.Order("name ASC").Find(&offices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching offices", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offices fetched successfully!", fiber.Map{
		"offices": offices,
	})
}
