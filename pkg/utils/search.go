package utils

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Minimum similarity for a fuzzy skill-name match.
const matchThreshold = 0.6

// SimilarityScore returns a normalized levenshtein similarity in [0, 1],
// case-insensitive.
func SimilarityScore(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	score := 1 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// MatchScore scores how well a skill name matches a query term. Substring
// containment counts as a full match so short queries like "go" still hit
// "golang".
func MatchScore(query, skillName string) (float64, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	s := strings.ToLower(strings.TrimSpace(skillName))
	if q == "" || s == "" {
		return 0, false
	}
	if strings.Contains(s, q) {
		return 1, true
	}
	score := SimilarityScore(q, s)
	return score, score >= matchThreshold
}
