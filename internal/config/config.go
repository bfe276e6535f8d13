package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// Redis Config
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"5m"`

	// Auth
	JWTSecret string `env:"JWT_SECRET"`

	// Dispatch / presence
	PresenceTTL         time.Duration `env:"PRESENCE_TTL" envDefault:"15m"`
	OnlineThreshold     time.Duration `env:"ONLINE_THRESHOLD" envDefault:"2m"`
	OperationTimeout    time.Duration `env:"OPERATION_TIMEOUT" envDefault:"5s"`
	SessionQueueSize    int           `env:"SESSION_QUEUE_SIZE" envDefault:"256"`
	SessionIdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	MessageHistoryLimit int           `env:"MESSAGE_HISTORY_LIMIT" envDefault:"50"`
	LocationWindow      time.Duration `env:"LOCATION_WINDOW" envDefault:"10m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "json")),
		DBMaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		IncidentCacheTTL:    getEnvAsDuration("INCIDENT_CACHE_TTL", 5*time.Minute),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		PresenceTTL:         getEnvAsDuration("PRESENCE_TTL", 15*time.Minute),
		OnlineThreshold:     getEnvAsDuration("ONLINE_THRESHOLD", 2*time.Minute),
		OperationTimeout:    getEnvAsDuration("OPERATION_TIMEOUT", 5*time.Second),
		SessionQueueSize:    getEnvAsInt("SESSION_QUEUE_SIZE", 256),
		SessionIdleTimeout:  getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		MessageHistoryLimit: getEnvAsInt("MESSAGE_HISTORY_LIMIT", 50),
		LocationWindow:      getEnvAsDuration("LOCATION_WINDOW", 10*time.Minute),
		WebhookURL:          os.Getenv("WEBHOOK_URL"),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:      getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:   getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:    getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные параметры и границы значений
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.PresenceTTL <= 0 {
		return fmt.Errorf("PRESENCE_TTL must be positive, got %s", c.PresenceTTL)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("OPERATION_TIMEOUT must be positive, got %s", c.OperationTimeout)
	}
	if c.SessionQueueSize < 1 {
		return fmt.Errorf("SESSION_QUEUE_SIZE must be at least 1, got %d", c.SessionQueueSize)
	}
	if c.MessageHistoryLimit < 1 {
		c.MessageHistoryLimit = 50
	}
	if c.LocationWindow <= 0 {
		c.LocationWindow = 10 * time.Minute
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
