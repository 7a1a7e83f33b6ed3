package controllers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

func UserProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	user.PasswordHash = ""
	return c.Status(fiber.StatusOK).JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	payload := &models.UpdateProfileRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.UpdateProfile(userID, payload.Name, payload.Bio); err != nil {
		return respondError(c, err)
	}
	if err := assignSkillsByName(userID, queries.SkillRoleOffered, payload.Skills); err != nil {
		return respondError(c, err)
	}
	if err := assignSkillsByName(userID, queries.SkillRoleWanted, payload.Learning); err != nil {
		return respondError(c, err)
	}

	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	user.PasswordHash = ""
	return c.Status(fiber.StatusOK).JSON(user)
}

// PublicProfile returns another user's profile without contact details.
func PublicProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	user.PasswordHash = ""
	user.Email = ""
	return c.Status(fiber.StatusOK).JSON(user)
}

// FindMatches ranks other users by swap compatibility: people who teach
// something the caller wants to learn, and vice versa. Mutual matches come
// first.
func FindMatches(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	me, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	users, err := userQueries.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}

	results := rankMatches(me, users)
	return c.Status(fiber.StatusOK).JSON(results)
}

// OnlineUsers reports which users currently hold a live websocket
// connection.
func OnlineUsers(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromHeader(c.Get("Authorization")); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"online": utils.DefaultNotifier.ActiveUserIDs()})
}

func rankMatches(me models.User, users []models.User) []models.MatchResult {
	var results []models.MatchResult
	for _, other := range users {
		if other.ID == me.ID {
			continue
		}
		theyTeach := matchSkillNames(me.Learning, other.Skills)
		youTeach := matchSkillNames(other.Learning, me.Skills)
		if len(theyTeach) == 0 && len(youTeach) == 0 {
			continue
		}
		other.PasswordHash = ""
		results = append(results, models.MatchResult{
			User:      other,
			TheyTeach: theyTeach,
			YouTeach:  youTeach,
			Mutual:    len(theyTeach) > 0 && len(youTeach) > 0,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Mutual != results[j].Mutual {
			return results[i].Mutual
		}
		return len(results[i].TheyTeach)+len(results[i].YouTeach) > len(results[j].TheyTeach)+len(results[j].YouTeach)
	})
	return results
}

// matchSkillNames returns the offered skill names that someone with the
// given wants is looking for, fuzzy-matched.
func matchSkillNames(wanted, offered []models.Skill) []string {
	var out []string
	for _, o := range offered {
		for _, w := range wanted {
			if _, ok := utils.MatchScore(w.Name, o.Name); ok {
				out = append(out, o.Name)
				break
			}
		}
	}
	return out
}

// SearchUsers fuzzy-matches users against comma-separated skill names, best
// matches first.
func SearchUsers(c *fiber.Ctx) error {
	skillQuery := c.Query("skills")
	if skillQuery == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skills query parameter is required (e.g. ?skills=react,node)"})
	}

	var terms []string
	for _, term := range strings.Split(skillQuery, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}

	userQueries := queries.UserQueries{DB: database.DB}
	users, err := userQueries.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}

	var results []models.UserSearchResult
	for _, user := range users {
		var total float64
		matches := 0
		for _, term := range terms {
			best := 0.0
			hit := false
			for _, skill := range user.Skills {
				if score, ok := utils.MatchScore(term, skill.Name); ok && score > best {
					best = score
					hit = true
				}
			}
			if hit {
				total += best
				matches++
			}
		}
		if matches > 0 {
			user.PasswordHash = ""
			results = append(results, models.UserSearchResult{User: user, Score: total, Matches: matches})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Matches != results[j].Matches {
			return results[i].Matches > results[j].Matches
		}
		return results[i].Score > results[j].Score
	})

	return c.Status(fiber.StatusOK).JSON(results)
}
