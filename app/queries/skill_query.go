package queries

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

type SkillQueries struct {
	DB *sql.DB
}

func (q *SkillQueries) GetSkillByID(id uuid.UUID) (models.SkillView, error) {
	s := models.SkillView{}
	query := `SELECT s.id, s.name, s.category_id, s.created_at, c.name, c.icon
			  FROM skills s JOIN categories c ON c.id = s.category_id WHERE s.id = $1`
	err := q.DB.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt, &s.CategoryName, &s.CategoryIcon)
	if err != nil {
		if err == sql.ErrNoRows {
			return s, apperr.NotFound("skill not found")
		}
		logrus.WithFields(logrus.Fields{"event": "skill_get_failed", "id": id, "error": err}).Error("get skill")
		return s, apperr.Internal("unable to get skill")
	}
	return s, nil
}

func (q *SkillQueries) GetAllCategories() ([]models.Category, error) {
	var out []models.Category
	rows, err := q.DB.Query(`SELECT id, name, icon, description, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "category_list_failed", "error": err}).Error("list categories")
		return out, apperr.Internal("unable to list categories")
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.CreatedAt); err != nil {
			return out, apperr.Internal("unable to read category row")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *SkillQueries) GetSkillsByCategory(categoryID uuid.UUID) ([]models.Skill, error) {
	var out []models.Skill
	rows, err := q.DB.Query(`SELECT id, name, category_id, created_at FROM skills WHERE category_id = $1 ORDER BY name ASC`, categoryID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "skill_list_failed", "category": categoryID, "error": err}).Error("list skills")
		return out, apperr.Internal("unable to list skills")
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt); err != nil {
			return out, apperr.Internal("unable to read skill row")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *SkillQueries) CreateCategory(c *models.Category) error {
	query := `INSERT INTO categories (id, name, icon, description, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := q.DB.Exec(query, c.ID, c.Name, c.Icon, c.Description, c.CreatedAt); err != nil {
		logrus.WithFields(logrus.Fields{"event": "category_insert_failed", "error": err}).Error("create category")
		return apperr.Conflict("category creation failed")
	}
	return nil
}

func (q *SkillQueries) GetCategoryByName(name string) (models.Category, error) {
	c := models.Category{}
	query := `SELECT id, name, icon, description, created_at FROM categories WHERE name = $1`
	err := q.DB.QueryRow(query, strings.ToLower(name)).Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, apperr.NotFound("category not found")
		}
		return c, apperr.Internal("unable to get category")
	}
	return c, nil
}

// GetOrCreateSkillByName resolves a skill by case-insensitive name, creating
// it under the given category when it does not exist yet.
func (q *SkillQueries) GetOrCreateSkillByName(name string, categoryID uuid.UUID) (models.Skill, error) {
	s := models.Skill{}
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return s, apperr.Validation("skill name is required")
	}

	query := `INSERT INTO skills (id, name, category_id, created_at) VALUES ($1,$2,$3,$4)
			  ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			  RETURNING id, name, category_id, created_at`
	err := q.DB.QueryRow(query, uuid.New(), normalized, categoryID, time.Now()).Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "skill_upsert_failed", "name": normalized, "error": err}).Error("upsert skill")
		return s, apperr.Internal("unable to resolve skill")
	}
	return s, nil
}
