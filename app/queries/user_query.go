package queries

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

// Roles a skill can play on a user profile.
const (
	SkillRoleOffered = "offered"
	SkillRoleWanted  = "wanted"
)

type UserQueries struct {
	DB *sql.DB
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	user := models.User{}
	query := `SELECT id, name, email, bio, avatar, password_hash, created_at, updated_at FROM users WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Bio, &user.Avatar, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, apperr.NotFound("user not found")
		}
		logrus.WithFields(logrus.Fields{"event": "user_get_failed", "id": id, "error": err}).Error("get user")
		return user, apperr.Internal("unable to get user")
	}

	if err := q.loadUserSkills(&user); err != nil {
		return user, err
	}
	return user, nil
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	user := models.User{}
	query := `SELECT id, name, email, bio, avatar, password_hash, created_at, updated_at FROM users WHERE email = $1`
	err := q.DB.QueryRow(query, email).Scan(&user.ID, &user.Name, &user.Email, &user.Bio, &user.Avatar, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, apperr.NotFound("user not found")
		}
		return user, apperr.Internal("unable to get user")
	}
	return user, nil
}

func (q *UserQueries) CreateUser(u *models.User) error {
	query := `INSERT INTO users (id, name, email, bio, avatar, password_hash, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := q.DB.Exec(query, u.ID, u.Name, u.Email, u.Bio, u.Avatar, u.PasswordHash, u.CreatedAt, u.UpdatedAt); err != nil {
		logrus.WithFields(logrus.Fields{"event": "user_insert_failed", "error": err}).Error("create user")
		return apperr.Internal("unable to create user")
	}
	return nil
}

func (q *UserQueries) UpdateProfile(id uuid.UUID, name, bio *string) error {
	query := `UPDATE users SET name = COALESCE($2, name), bio = COALESCE($3, bio), updated_at = now() WHERE id = $1`
	res, err := q.DB.Exec(query, id, name, bio)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "user_update_failed", "id": id, "error": err}).Error("update user")
		return apperr.Internal("unable to update profile")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("unable to update profile")
	}
	if rowCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// ReplaceUserSkills swaps out the user's skill set for one role.
func (q *UserQueries) ReplaceUserSkills(userID uuid.UUID, role string, skillIDs []uuid.UUID) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return apperr.Internal("unable to update skills")
	}

	if _, err := tx.Exec(`DELETE FROM user_skills WHERE user_id = $1 AND role = $2`, userID, role); err != nil {
		_ = tx.Rollback()
		return apperr.Internal("unable to update skills")
	}
	for _, skillID := range skillIDs {
		if _, err := tx.Exec(`INSERT INTO user_skills (user_id, skill_id, role) VALUES ($1,$2,$3) ON CONFLICT DO NOTHING`, userID, skillID, role); err != nil {
			_ = tx.Rollback()
			return apperr.Internal("unable to update skills")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("unable to update skills")
	}
	return nil
}

// GetAllUsers returns every user with their skill sets loaded, for search.
func (q *UserQueries) GetAllUsers() ([]models.User, error) {
	var out []models.User
	rows, err := q.DB.Query(`SELECT id, name, email, bio, avatar, password_hash, created_at, updated_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "user_list_failed", "error": err}).Error("list users")
		return out, apperr.Internal("unable to list users")
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Bio, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return out, apperr.Internal("unable to read user row")
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return out, apperr.Internal("unable to read user rows")
	}

	for i := range out {
		if err := q.loadUserSkills(&out[i]); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (q *UserQueries) loadUserSkills(user *models.User) error {
	query := `SELECT s.id, s.name, s.category_id, s.created_at, us.role
			  FROM user_skills us JOIN skills s ON s.id = us.skill_id
			  WHERE us.user_id = $1 ORDER BY s.name ASC`
	rows, err := q.DB.Query(query, user.ID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "user_skills_failed", "id": user.ID, "error": err}).Error("load user skills")
		return apperr.Internal("unable to load user skills")
	}
	defer rows.Close()

	user.Skills = nil
	user.Learning = nil
	for rows.Next() {
		var s models.Skill
		var role string
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt, &role); err != nil {
			return apperr.Internal("unable to read user skill row")
		}
		if role == SkillRoleWanted {
			user.Learning = append(user.Learning, s)
		} else {
			user.Skills = append(user.Skills, s)
		}
	}
	return rows.Err()
}
