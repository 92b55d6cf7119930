package main

import (
	"log"

	"fixdesk/chat"
	"fixdesk/config"
	"fixdesk/database"
	"fixdesk/middleware"
	"fixdesk/routers/authRoutes"
	"fixdesk/routers/messageRoutes"
	"fixdesk/routers/officeRoutes"
	"fixdesk/routers/ticketRoutes"
	"fixdesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Real-time chat wiring. The registry is constructed and injected
	// explicitly; nothing holds process-wide socket state.
	directory := chat.NewDirectory(database.Database.Db)
	store := chat.NewMessageStore(database.Database.Db)
	verifier := chat.VerifierFunc(func(token string) (uint, error) {
		userID, _, err := middleware.ParseToken(token)
		return userID, err
	})
	registry := chat.NewRegistry(verifier, directory)
	registry.Start()
	defer registry.Stop()

	pipeline := chat.NewPipeline(directory, store, registry)
	rooms := chat.NewRoomManager(directory, store, registry)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Server is running", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	ticketRoutes.SetupTicketRoutes(app)
	officeRoutes.SetupOfficeRoutes(app)
	messageRoutes.SetupMessageRoutes(app, pipeline)

	app.Use("/ws", chat.UpgradeMiddleware)
	app.Get("/ws", chat.SocketHandler(registry, rooms, pipeline))

	if scheduler := utils.StartReminderScheduler(); scheduler != nil {
		defer scheduler.Stop()
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
