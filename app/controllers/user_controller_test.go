package controllers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakasatria/skillswap-backend/app/models"
)

func userWithSkills(name string, teaches, wants []string) models.User {
	u := models.User{ID: uuid.New(), Name: name}
	for _, s := range teaches {
		u.Skills = append(u.Skills, models.Skill{ID: uuid.New(), Name: s})
	}
	for _, s := range wants {
		u.Learning = append(u.Learning, models.Skill{ID: uuid.New(), Name: s})
	}
	return u
}

func TestRankMatches_MutualFirst(t *testing.T) {
	me := userWithSkills("Alice", []string{"guitar"}, []string{"french"})
	mutual := userWithSkills("Bob", []string{"french"}, []string{"guitar"})
	oneWay := userWithSkills("Carol", []string{"french"}, []string{"pottery"})
	noOverlap := userWithSkills("Dave", []string{"welding"}, []string{"pottery"})

	results := rankMatches(me, []models.User{noOverlap, oneWay, mutual, me})

	require.Len(t, results, 2)
	assert.Equal(t, "Bob", results[0].User.Name)
	assert.True(t, results[0].Mutual)
	assert.Equal(t, []string{"french"}, results[0].TheyTeach)
	assert.Equal(t, []string{"guitar"}, results[0].YouTeach)

	assert.Equal(t, "Carol", results[1].User.Name)
	assert.False(t, results[1].Mutual)
	assert.Empty(t, results[1].YouTeach)
}

func TestRankMatches_ExcludesSelfAndStrangers(t *testing.T) {
	me := userWithSkills("Alice", []string{"guitar"}, []string{"french"})
	stranger := userWithSkills("Dave", []string{"welding"}, []string{"pottery"})

	results := rankMatches(me, []models.User{me, stranger})
	assert.Empty(t, results)
}

func TestMatchSkillNames_FuzzyAndExact(t *testing.T) {
	wanted := []models.Skill{{Name: "guitar"}, {Name: "go"}}
	offered := []models.Skill{{Name: "Guitar"}, {Name: "golang"}, {Name: "pottery"}}

	names := matchSkillNames(wanted, offered)
	assert.Equal(t, []string{"Guitar", "golang"}, names)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, averageRating(nil))

	reviews := []models.ReviewView{
		{Review: models.Review{Rating: 5, CreatedAt: time.Now()}},
		{Review: models.Review{Rating: 4, CreatedAt: time.Now()}},
	}
	assert.Equal(t, 4.5, averageRating(reviews))
}
