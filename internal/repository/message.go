package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) service.MessageRepository {
	return &MessageRepository{db: db}
}

// CreateMessage сохраняет сообщение; ID выдает последовательность бд
func (r *MessageRepository) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (channel, author_id, author_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		m.Channel,
		m.AuthorID,
		m.AuthorName,
		m.Body,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages возвращает последние limit сообщений канала по возрастанию ID
func (r *MessageRepository) ListMessages(ctx context.Context, channel string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, channel, author_id, author_name, body, created_at
		FROM (
			SELECT id, channel, author_id, author_name, body, created_at
			FROM messages
			WHERE channel = $1
			ORDER BY id DESC
			LIMIT $2
		) latest
		ORDER BY id ASC;
	`
	rows, err := r.db.Query(ctx, query, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Channel, &m.AuthorID, &m.AuthorName, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
