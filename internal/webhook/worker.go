package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/sirupsen/logrus"
)

const signatureHeader = "X-Webhook-Signature"

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Run обрабатывает очередь вебхуков до отмены контекста
func (w *WebhookWorker) Run(ctx context.Context) error {
	w.logger.Info("Starting webhook worker...")
	for {
		// Таймаут BRPOP, чтобы периодически проверять контекст
		result, err := w.redisClient.BRPop(ctx, 5*time.Second, webhookQueueKey).Result()
		if ctx.Err() != nil {
			w.logger.Info("Stopping webhook worker.")
			return nil
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
			if !sleepCtx(ctx, w.cfg.WebhookTimeout) {
				return nil
			}
			continue
		}

		// result[0] - ключ, result[1] - значение
		payload := result[1]
		var event WebhookEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
			continue
		}

		w.deliver(ctx, event, payload)
	}
}

// deliver отправляет событие с экспоненциальной задержкой между попытками
func (w *WebhookWorker) deliver(ctx context.Context, event WebhookEvent, rawPayload string) bool {
	log := w.logger.WithFields(logrus.Fields{
		"event_type":  event.Type,
		"incident_id": event.IncidentID,
	})
	log.Debug("Processing webhook event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		return false
	}

	maxRetries := w.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	delay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			if !sleepCtx(ctx, delay) {
				return false
			}
			delay *= 2
		}

		err := w.send(ctx, rawPayload)
		if err == nil {
			log.Info("Webhook delivered successfully.")
			return true
		}
		log.WithError(err).Warnf("Webhook delivery failed. Retries left: %d", maxRetries-1-i)
	}

	log.Errorf("Failed to deliver webhook for event after %d attempts.", maxRetries)
	return false
}

func (w *WebhookWorker) send(ctx context.Context, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set(signatureHeader, generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
