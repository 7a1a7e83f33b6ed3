package queries

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

type ReviewQueries struct {
	DB *sql.DB
}

const reviewViewSelect = `SELECT r.id, r.reviewer_id, r.reviewee_id, r.rating, r.comment, r.created_at,
		COALESCE(u.name, ''), COALESCE(u.avatar, '')
	FROM reviews r
	LEFT JOIN users u ON u.id = r.reviewer_id`

func (q *ReviewQueries) CreateReview(r *models.Review) error {
	query := `INSERT INTO reviews (id, reviewer_id, reviewee_id, rating, comment, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := q.DB.Exec(query, r.ID, r.ReviewerID, r.RevieweeID, r.Rating, r.Comment, r.CreatedAt); err != nil {
		logrus.WithFields(logrus.Fields{"event": "review_insert_failed", "reviewee": r.RevieweeID, "error": err}).Error("create review")
		return apperr.Internal("unable to create review")
	}
	return nil
}

func (q *ReviewQueries) GetReviewByID(id uuid.UUID) (models.Review, error) {
	r := models.Review{}
	query := `SELECT id, reviewer_id, reviewee_id, rating, comment, created_at FROM reviews WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(&r.ID, &r.ReviewerID, &r.RevieweeID, &r.Rating, &r.Comment, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return r, apperr.NotFound("review not found")
		}
		return r, apperr.Internal("unable to get review")
	}
	return r, nil
}

// GetReviewsForUser returns the reviews left for a user, newest first,
// enriched with reviewer display data.
func (q *ReviewQueries) GetReviewsForUser(revieweeID uuid.UUID) ([]models.ReviewView, error) {
	query := reviewViewSelect + ` WHERE r.reviewee_id = $1 ORDER BY r.created_at DESC`
	rows, err := q.DB.Query(query, revieweeID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "review_list_failed", "reviewee": revieweeID, "error": err}).Error("list reviews")
		return nil, apperr.Internal("unable to list reviews")
	}
	defer rows.Close()

	var out []models.ReviewView
	for rows.Next() {
		var v models.ReviewView
		if err := rows.Scan(&v.ID, &v.ReviewerID, &v.RevieweeID, &v.Rating, &v.Comment, &v.CreatedAt, &v.ReviewerName, &v.ReviewerAvatar); err != nil {
			return out, apperr.Internal("unable to read review row")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return out, apperr.Internal("unable to read review rows")
	}
	return out, nil
}

func (q *ReviewQueries) DeleteReview(id uuid.UUID) error {
	res, err := q.DB.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "review_delete_failed", "id": id, "error": err}).Error("delete review")
		return apperr.Internal("unable to delete review")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("unable to delete review")
	}
	if rowCount == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}
