package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/pkg/database"
)

func GetAllCategories(c *fiber.Ctx) error {
	skillQueries := queries.SkillQueries{DB: database.DB}
	categories, err := skillQueries.GetAllCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

func GetSkillsByCategory(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("categoryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category id"})
	}

	skillQueries := queries.SkillQueries{DB: database.DB}
	skills, err := skillQueries.GetSkillsByCategory(categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(skills)
}

func CreateCategory(c *fiber.Ctx) error {
	p := &models.CreateCategoryRequest{}
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	icon := p.Icon
	if icon == "" {
		icon = "🛠️"
	}
	category := &models.Category{
		ID:          uuid.New(),
		Name:        p.Name,
		Icon:        icon,
		Description: p.Description,
		CreatedAt:   time.Now(),
	}

	skillQueries := queries.SkillQueries{DB: database.DB}
	if err := skillQueries.CreateCategory(category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
