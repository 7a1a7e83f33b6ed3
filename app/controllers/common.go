package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/app/swap"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

var validate = validator.New()

func newSwapEngine() *swap.Engine {
	return &swap.Engine{
		Store:  &queries.TransactionQueries{DB: database.DB},
		Skills: &queries.SkillQueries{DB: database.DB},
		Users:  &queries.UserQueries{DB: database.DB},
		Notify: utils.DefaultNotifier,
	}
}

// respondError maps typed engine/store errors onto HTTP responses so the
// client can tell which rule failed.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.MapErrorToHTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.Code(err),
	})
}
