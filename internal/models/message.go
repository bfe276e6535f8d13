package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultChannel = "general"

// Message - сообщение чата; неизменяемо после создания.
// Порядок внутри канала определяется возрастающим ID.
type Message struct {
	ID         int64     `json:"id"`
	Channel    string    `json:"channel"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
