package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/field_dispatch/internal/models"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "dispatch_webhook_events"
)

// WebhookEvent - зафиксированное изменение инцидента для внешней системы
type WebhookEvent struct {
	Type       string           `json:"type"`
	IncidentID uuid.UUID        `json:"incident_id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	Incident   *models.Incident `json:"incident,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
