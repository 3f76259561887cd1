// Package repository implements the database access layer for the messenger
// backend. This file handles the append-only per-group message history.
package repository

import (
	"context"

	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/models"
)

// MessageRepository handles message reads and the append-only message create.
// Messages are never updated or deleted.
type MessageRepository struct {
	db database.DBInterface
}

// NewMessageRepository creates a new MessageRepository backed by the given pool.
func NewMessageRepository(db database.DBInterface) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListByGroup retrieves a group's full message history in ascending per-group
// sequence order with each sender record populated. An empty history yields
// an empty slice; a missing group yields ErrGroupNotFound.
func (r *MessageRepository) ListByGroup(ctx context.Context, groupID int) ([]models.MessageWithSender, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	query := `
		SELECT m.message_id, m.group_id, m.user_id, m.sender_name, m.message, m.created_at,
		       u.id, u.username, u.avatar_url, u.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.message_id
	`

	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.MessageWithSender{}
	for rows.Next() {
		var m models.MessageWithSender
		err := rows.Scan(
			&m.MessageID, &m.GroupID, &m.UserID, &m.SenderName, &m.Body, &m.CreatedAt,
			&m.Sender.ID, &m.Sender.Name, &m.Sender.AvatarURL, &m.Sender.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Create appends a message to a group's history. The next per-group sequence
// number and the denormalized sender name are assigned inside the INSERT
// itself, so no read-modify-write window exists. A missing group or sender
// surfaces as a referential-integrity error from the store.
//
// Side Effects: populates message.MessageID, message.SenderName and
// message.CreatedAt.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (group_id, message_id, user_id, sender_name, message)
		VALUES (
			$1,
			(SELECT COALESCE(MAX(message_id) + 1, 0) FROM messages WHERE group_id = $1),
			$2,
			(SELECT username FROM users WHERE id = $2),
			$3
		)
		RETURNING message_id, sender_name, created_at
	`

	return r.db.QueryRow(ctx, query, message.GroupID, message.UserID, message.Body).
		Scan(&message.MessageID, &message.SenderName, &message.CreatedAt)
}
