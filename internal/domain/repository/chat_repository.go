package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codetrek/internal/domain/model"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// ListByUser returns the user's messages in ascending timestamp order.
	ListByUser(ctx context.Context, userID string) ([]model.ChatMessage, error)
}

type pgChatRepository struct {
	db *sql.DB
}

func NewPgChatRepository(db *sql.DB) ChatRepository {
	return &pgChatRepository{db: db}
}

func (r *pgChatRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, user_id, message_type, content, timestamp)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.MessageType, m.Content, m.Timestamp); err != nil {
		return fmt.Errorf("pgChatRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChatRepository) ListByUser(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	query := `
        SELECT m.id, m.user_id, u.username, m.message_type, m.content, m.timestamp
        FROM chat_messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.user_id = $1
        ORDER BY m.timestamp ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgChatRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.MessageType, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("pgChatRepository.ListByUser scan: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChatRepository.ListByUser rows: %w", err)
	}
	return messages, nil
}
