package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rakasatria/skillswap-backend/app/controllers"
	"github.com/rakasatria/skillswap-backend/pkg/middleware"
)

func RegisterTransactionRoutes(app *fiber.App) {
	tx := app.Group("/transactions", middleware.JWTProtected())
	tx.Post("/", controllers.CreateTransaction)
	tx.Get("/filter", controllers.FilterMyTransactions)
	tx.Get("/", controllers.GetMyTransactions)
	tx.Patch("/:id", controllers.UpdateTransactionStatus)
	tx.Delete("/:id", controllers.DeleteTransaction)

	// swap negotiation
	tx.Post("/:id/swap", controllers.ProposeSwap)
	tx.Post("/:id/swap/resolve", controllers.ResolveSwap)
}
