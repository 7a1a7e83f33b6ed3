package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

// Skills named at signup without a known category land here.
const defaultCategoryName = "programming"

func UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	if err := c.BodyParser(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if _, err := userQueries.GetUserByEmail(signUp.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signUp.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         signUp.Name,
		Email:        signUp.Email,
		Bio:          signUp.Bio,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := userQueries.CreateUser(user); err != nil {
		return respondError(c, err)
	}

	if err := assignSkillsByName(user.ID, queries.SkillRoleOffered, signUp.Skills); err != nil {
		return respondError(c, err)
	}
	if err := assignSkillsByName(user.ID, queries.SkillRoleWanted, signUp.Learning); err != nil {
		return respondError(c, err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	created, err := userQueries.GetUserByID(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": created})
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := c.BodyParser(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByEmail(signIn.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signIn.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	user.PasswordHash = ""
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token, "user": user})
}

// assignSkillsByName resolves skill names (creating unknown ones under the
// default category) and replaces the user's skill set for the given role.
func assignSkillsByName(userID uuid.UUID, role string, names []string) error {
	if names == nil {
		return nil
	}

	skillQueries := queries.SkillQueries{DB: database.DB}
	category, err := skillQueries.GetCategoryByName(defaultCategoryName)
	if err != nil {
		return apperr.Internal("default skill category not found")
	}

	skillIDs := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		skill, err := skillQueries.GetOrCreateSkillByName(name, category.ID)
		if err != nil {
			return err
		}
		skillIDs = append(skillIDs, skill.ID)
	}

	userQueries := queries.UserQueries{DB: database.DB}
	return userQueries.ReplaceUserSkills(userID, role, skillIDs)
}
