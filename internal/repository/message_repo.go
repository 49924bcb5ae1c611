package repository

import (
	"context"

	"github.com/AyushSid28/Coach-Loop/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(
	ctx context.Context,
	sessionID int64,
	sender string,
	text string,
) (*models.Message, error) {
	query := `
		INSERT INTO session_messages (session_id, sender, text)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, sender, text, created_at
	`
	var message models.Message
	err := r.db.QueryRow(ctx, query, sessionID, sender, text).Scan(
		&message.ID,
		&message.SessionID,
		&message.Sender,
		&message.Text,
		&message.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListBySession returns messages in insertion order, which is the
// conversation order.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error) {
	query := `
		SELECT id, session_id, sender, text, created_at
		FROM session_messages
		WHERE session_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Sender,
			&message.Text,
			&message.Timestamp,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
