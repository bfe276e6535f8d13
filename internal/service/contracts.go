package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/models"
)

//go:generate mockgen -source=contracts.go -destination=mocks/mock_contracts.go -package=mocks

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	CountIncidents(ctx context.Context) (total int, open int, err error)

	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// OfficerRepository определяет контракт для хранения сотрудников
type OfficerRepository interface {
	CreateOfficer(ctx context.Context, officer *models.Officer) error
	GetOfficer(ctx context.Context, id uuid.UUID) (*models.Officer, error)
	ListOfficers(ctx context.Context) ([]*models.Officer, error)
	UpdateOfficerPresence(ctx context.Context, id uuid.UUID, status models.OfficerStatus, lastSeenAt time.Time) error
	UpdateOfficerProfile(ctx context.Context, officer *models.Officer) error
	UpdateOfficerLocation(ctx context.Context, id uuid.UUID, location models.Location, recordedAt time.Time) error
}

// MessageRepository определяет контракт для хранения сообщений чата.
// CreateMessage присваивает сообщению возрастающий ID.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, channel string, limit int) ([]*models.Message, error)
	CountMessages(ctx context.Context) (int, error)
}

// EventPublisher рассылает зафиксированные события подписчикам
type EventPublisher interface {
	Publish(event models.Event) models.Event
}

// SessionCounter сообщает число открытых сессий
type SessionCounter interface {
	Count() int
}
