package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/rakasatria/skillswap-backend/pkg/config"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("skillswap backend up")
	})

	if _, err := database.InitDB(); err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer func() { _ = database.CloseDB() }()

	routes.RegisterUserRoutes(app)
	routes.RegisterCategoryRoutes(app)
	routes.RegisterTransactionRoutes(app)
	routes.RegisterMessageRoutes(app)

	log.Fatal(app.Listen(cfg.ListenAddr))
}
