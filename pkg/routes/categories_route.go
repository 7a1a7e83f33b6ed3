package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rakasatria/skillswap-backend/app/controllers"
	"github.com/rakasatria/skillswap-backend/pkg/middleware"
)

func RegisterCategoryRoutes(app *fiber.App) {
	app.Get("/categories", controllers.GetAllCategories)
	app.Get("/categories/:categoryId/skills", controllers.GetSkillsByCategory)

	app.Post("/categories", middleware.JWTProtected(), controllers.CreateCategory)
}
