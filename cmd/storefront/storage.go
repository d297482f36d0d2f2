package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStorage connects the configured snapshot backend. The returned close
// func releases its connections.
func openStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (kv.Storage, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var (
		storage kv.Storage
		closeFn = func() {}
	)

	switch cfg.Backend {
	case "memory":
		storage = kv.NewMemoryStorage()
		log.Warn("using in-memory storage, state is lost on restart")

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		storage = kv.NewRedisStorage(client, cfg.Redis.TTL)
		closeFn = func() { _ = client.Close() }
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	case "mongo":
		db, err := kv.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		ms := kv.NewMongoStorage(db)
		if err := ms.CreateIndexes(ctx); err != nil {
			log.Warn("failed to create mongo indexes", zap.Error(err))
		}
		storage = ms
		closeFn = func() { _ = db.Client().Disconnect(context.Background()) }
		log.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	case "sqlite":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		ss, err := kv.NewSQLiteStorage(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := ss.RunMigrations(); err != nil {
			_ = ss.Close()
			return nil, nil, err
		}
		storage = ss
		closeFn = func() { _ = ss.Close() }
		log.Info("opened sqlite storage", zap.String("path", cfg.SQLite.Path))

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return kv.WithPrefix(storage, cfg.Prefix), closeFn, nil
}
