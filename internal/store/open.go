package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peerprep/interview/internal/config"
)

// Open connects the configured backend. The returned func releases its connections.
func Open(cfg config.StoreConfig) (Backend, func(), error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		return openGorm(sqlite.Open(cfg.SQLitePath))
	case config.StorePostgres:
		return openGorm(postgres.Open(cfg.Postgres.DSN()))
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisBackend(client), func() { client.Close() }, nil
	case config.StoreMemory, "":
		return NewMemoryBackend(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

func openGorm(dialector gorm.Dialector) (Backend, func(), error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	backend, err := NewGormBackend(db)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return backend, closer, nil
}
