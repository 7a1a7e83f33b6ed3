package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/rakasatria/skillswap-backend/app/controllers"
	"github.com/rakasatria/skillswap-backend/pkg/middleware"
)

func RegisterMessageRoutes(app *fiber.App) {
	msg := app.Group("/messages", middleware.JWTProtected())
	msg.Post("/", controllers.SendMessage)
	msg.Get("/", controllers.GetMyMessages)
	msg.Get("/conversation/:userId", controllers.GetConversation)

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		controllers.WsHandler(c)
	}))
}
