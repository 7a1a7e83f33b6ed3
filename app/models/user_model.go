package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	Avatar       string    `json:"avatar,omitempty" db:"avatar"`
	PasswordHash string    `json:"-" db:"password_hash"`

	// Skills the user offers to teach and skills they want to learn.
	Skills   []Skill `json:"skills,omitempty"`
	Learning []Skill `json:"learning,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	Name     *string  `json:"name"`
	Bio      *string  `json:"bio"`
	Skills   []string `json:"skills"`
	Learning []string `json:"learning"`
}

// UserSearchResult ranks a user against the searched skill names.
type UserSearchResult struct {
	User    User    `json:"user"`
	Score   float64 `json:"score"`
	Matches int     `json:"matches"`
}

// MatchResult pairs a user with the skill overlap that makes them a viable
// swap counterpart. Mutual means each side teaches something the other
// wants to learn.
type MatchResult struct {
	User      User     `json:"user"`
	TheyTeach []string `json:"they_teach,omitempty"`
	YouTeach  []string `json:"you_teach,omitempty"`
	Mutual    bool     `json:"mutual"`
}
