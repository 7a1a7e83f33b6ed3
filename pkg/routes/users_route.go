package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rakasatria/skillswap-backend/app/controllers"
	"github.com/rakasatria/skillswap-backend/pkg/middleware"
)

func RegisterUserRoutes(app *fiber.App) {
	// Public routes
	app.Post("/auth/register", controllers.UserSignUp)
	app.Post("/auth/login", controllers.UserSignIn)

	user := app.Group("/users", middleware.JWTProtected())
	user.Get("/profile", controllers.UserProfile)
	user.Put("/profile", controllers.UpdateProfile)
	user.Get("/search", controllers.SearchUsers)
	user.Get("/matches", controllers.FindMatches)
	user.Get("/online", controllers.OnlineUsers)

	// reviews
	user.Post("/:userId/reviews", controllers.CreateReview)
	user.Delete("/reviews/:reviewId", controllers.DeleteReview)
	app.Get("/users/:userId/reviews", controllers.GetReviews)

	// public profile, registered after the specific routes
	app.Get("/users/:userId", controllers.PublicProfile)
}
