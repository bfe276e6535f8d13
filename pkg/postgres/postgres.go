package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// NewPostgresDB создает пул соединений PostgreSQL.
// Ping повторяется connectAttempts раз с паузой connectDelay.
func NewPostgresDB(ctx context.Context, appCfg *config.Config, log *logrus.Logger) (*pgxpool.Pool, error) {
	cfgPool, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации postgres: %w", err)
	}
	if appCfg.DBMaxConns > 0 {
		cfgPool.MaxConns = appCfg.DBMaxConns
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, cfgPool)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = dbpool.Ping(ctx)
		if err == nil {
			return dbpool, nil
		}
		if attempt == connectAttempts {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warn("PostgreSQL is not ready, retrying")

		select {
		case <-ctx.Done():
			dbpool.Close()
			return nil, ctx.Err()
		case <-time.After(connectDelay):
		}
	}

	dbpool.Close()
	return nil, fmt.Errorf("не удалось выполнить ping к postgres: %w", err)
}
