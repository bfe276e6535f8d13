package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/shenikar/field_dispatch/internal/broadcast"
	"github.com/shenikar/field_dispatch/internal/config"
	v1 "github.com/shenikar/field_dispatch/internal/handler/http/v1"
	"github.com/shenikar/field_dispatch/internal/handler/ws"
	"github.com/shenikar/field_dispatch/internal/presence"
	"github.com/shenikar/field_dispatch/internal/repository"
	"github.com/shenikar/field_dispatch/internal/service"
	"github.com/shenikar/field_dispatch/internal/session"
	"github.com/shenikar/field_dispatch/internal/webhook"
	"github.com/shenikar/field_dispatch/pkg/logger"
	"github.com/shenikar/field_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/field_dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/field_dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 5 * time.Second

// @title Field Dispatch API
// @version 1.0
// @description Incident dispatch and officer presence service.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, dir string, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+dir, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// storage - набор репозиториев выбранного драйвера
type storage struct {
	incidents service.IncidentRepository
	officers  service.OfficerRepository
	messages  service.MessageRepository
	webhooks  webhook.WebhookPublisher
	redis     *redis.Client
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, migrationsDir string, skipMigrations bool, log *logrus.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &storage{incidents: mem, officers: mem, messages: mem, close: func() {}}, nil
	}

	if !skipMigrations {
		if err := runMigrations(cfg, migrationsDir, log); err != nil {
			return nil, err
		}
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		dbpool.Close()
		return nil, err
	}
	log.Info("Successfully connected to Redis")

	return &storage{
		incidents: repository.NewIncidentRepository(dbpool, redisClient, cfg.IncidentCacheTTL),
		officers:  repository.NewOfficerRepository(dbpool),
		messages:  repository.NewMessageRepository(dbpool),
		webhooks:  webhook.NewRedisWebhookPublisher(redisClient),
		redis:     redisClient,
		close: func() {
			redisClient.Close()
			dbpool.Close()
		},
	}, nil
}

func main() {
	migrationsDir := pflag.String("migrations", "migrations", "directory with SQL migrations")
	skipMigrations := pflag.Bool("skip-migrations", false, "do not apply migrations on startup")
	pflag.Parse()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, *migrationsDir, *skipMigrations, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Ядро: присутствие, рассылка, сессии
	presenceStore := presence.NewStore(cfg.PresenceTTL, cfg.OnlineThreshold, time.Now)
	hub := broadcast.New(log)
	registry := session.NewRegistry(hub, presenceStore, log, session.Options{
		QueueSize:   cfg.SessionQueueSize,
		IdleTimeout: cfg.SessionIdleTimeout,
		Now:         time.Now,
	})
	hub.SetEvictionHook(registry.HandleEviction)

	dispatchService := service.NewDispatchService(service.Deps{
		Incidents: store.incidents,
		Officers:  store.officers,
		Messages:  store.messages,
		Presence:  presenceStore,
		Events:    hub,
		Sessions:  registry,
		Webhooks:  store.webhooks,
		Logger:    log,
		Config:    cfg,
		Now:       time.Now,
	})
	if err := dispatchService.LoadPresence(ctx); err != nil {
		log.Fatalf("Failed to load officers: %v", err)
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(dispatchService, registry, log, cfg)
	stream := ws.NewStream(registry, dispatchService, log, 0)

	// Настройка Gin роутера
	router := gin.New()
	router.Use(gin.Recovery())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, stream.Register)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("HTTP server started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return registry.Run(gctx)
	})

	if store.redis != nil {
		webhookWorker := webhook.NewWebhookWorker(store.redis, log, cfg)
		g.Go(func() error {
			return webhookWorker.Run(gctx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("Server stopped with error: %v", err)
		return
	}
	log.Info("Server gracefully stopped")
}
