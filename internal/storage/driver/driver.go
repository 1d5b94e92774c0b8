// Package driver opens the storage backend named by configuration.
package driver

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/storage"
	"github.com/easytobuy/storefront/internal/storage/file"
	"github.com/easytobuy/storefront/internal/storage/postgres"
	"github.com/easytobuy/storefront/internal/storage/redis"
)

// Open returns the configured store and a func releasing its connections.
// fs is only used by the file driver.
func Open(ctx context.Context, cfg config.StorageConfig, fs afero.Fs, logger *zap.Logger) (storage.KeyValue, func() error, error) {
	switch cfg.Driver {
	case config.StorageDriverFile:
		s, err := file.NewStore(fs, cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file storage", zap.String("dir", cfg.Dir))
		return s, func() error { return nil }, nil

	case config.StorageDriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Info("Using redis storage", zap.String("addr", cfg.Redis.Addr))
		return redis.NewStore(client, cfg.Redis.TTL), client.Close, nil

	case config.StorageDriverPostgres:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewStore(db, logger)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Using postgres storage", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
		return s, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
