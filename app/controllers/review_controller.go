package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

func CreateReview(c *fiber.Ctx) error {
	reviewerID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	revieweeID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	if revieweeID == reviewerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot review yourself"})
	}

	p := &models.CreateReviewRequest{}
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if _, err := userQueries.GetUserByID(revieweeID); err != nil {
		return respondError(c, err)
	}

	review := &models.Review{
		ID:         uuid.New(),
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     p.Rating,
		Comment:    p.Comment,
		CreatedAt:  time.Now(),
	}

	reviewQueries := queries.ReviewQueries{DB: database.DB}
	if err := reviewQueries.CreateReview(review); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetReviews lists the reviews left for a user along with their average
// rating.
func GetReviews(c *fiber.Ctx) error {
	revieweeID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	reviewQueries := queries.ReviewQueries{DB: database.DB}
	reviews, err := reviewQueries.GetReviewsForUser(revieweeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reviews":        reviews,
		"count":          len(reviews),
		"average_rating": averageRating(reviews),
	})
}

func DeleteReview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review id"})
	}

	reviewQueries := queries.ReviewQueries{DB: database.DB}
	review, err := reviewQueries.GetReviewByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if review.ReviewerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the reviewer may delete a review"})
	}

	if err := reviewQueries.DeleteReview(id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Review deleted successfully"})
}

func averageRating(reviews []models.ReviewView) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}
