package queries

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

type MessageQueries struct {
	DB *sql.DB
}

const messageViewSelect = `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at,
		COALESCE(su.name, ''), COALESCE(su.avatar, ''), COALESCE(ru.name, '')
	FROM messages m
	LEFT JOIN users su ON su.id = m.sender_id
	LEFT JOIN users ru ON ru.id = m.receiver_id`

func (q *MessageQueries) CreateMessage(m *models.Message) error {
	query := `INSERT INTO messages (id, sender_id, receiver_id, content, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := q.DB.Exec(query, m.ID, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt); err != nil {
		logrus.WithFields(logrus.Fields{"event": "message_insert_failed", "error": err}).Error("create message")
		return apperr.Internal("unable to send message")
	}
	return nil
}

func (q *MessageQueries) GetMessageByID(id uuid.UUID) (models.MessageView, error) {
	m := models.MessageView{}
	err := q.DB.QueryRow(messageViewSelect+` WHERE m.id = $1`, id).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.SenderName, &m.SenderAvatar, &m.ReceiverName)
	if err != nil {
		if err == sql.ErrNoRows {
			return m, apperr.NotFound("message not found")
		}
		return m, apperr.Internal("unable to get message")
	}
	return m, nil
}

// GetMessagesForUser returns every message the user sent or received, newest
// first.
func (q *MessageQueries) GetMessagesForUser(userID uuid.UUID) ([]models.MessageView, error) {
	query := messageViewSelect + ` WHERE m.sender_id = $1 OR m.receiver_id = $1 ORDER BY m.created_at DESC`
	rows, err := q.DB.Query(query, userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "message_list_failed", "user": userID, "error": err}).Error("list messages")
		return nil, apperr.Internal("unable to list messages")
	}
	defer rows.Close()
	return scanMessageViews(rows)
}

// GetConversation returns the thread between two users in chronological order.
func (q *MessageQueries) GetConversation(userA, userB uuid.UUID) ([]models.MessageView, error) {
	query := messageViewSelect + ` WHERE (m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC`
	rows, err := q.DB.Query(query, userA, userB)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "conversation_failed", "error": err}).Error("get conversation")
		return nil, apperr.Internal("unable to load conversation")
	}
	defer rows.Close()
	return scanMessageViews(rows)
}

func scanMessageViews(rows *sql.Rows) ([]models.MessageView, error) {
	var out []models.MessageView
	for rows.Next() {
		var m models.MessageView
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.SenderName, &m.SenderAvatar, &m.ReceiverName); err != nil {
			return out, apperr.Internal("unable to read message row")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return out, apperr.Internal("unable to read message rows")
	}
	return out, nil
}
