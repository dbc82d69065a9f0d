// Package backends selects the Store implementation named by configuration.
package backends

import (
	"context"
	"fmt"

	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/storage"
	"github.com/dovepeak/quotemaster/internal/storage/gormstore"
	"github.com/dovepeak/quotemaster/internal/storage/memory"
	"github.com/dovepeak/quotemaster/internal/storage/redisstore"
	"github.com/dovepeak/quotemaster/pkg/db"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(NewStore),
	fx.Provide(storage.NewGateway),
)

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config config.Config
	Log    *zap.Logger
}

// NewStore opens the backend selected by STORAGE_BACKEND.
func NewStore(p Params) (storage.Store, error) {
	log := p.Log.Named("storage")

	switch p.Config.StorageBackend {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memory.New(), nil

	case config.StorageNone:
		log.Warn("storage disabled, reads return empty collections and writes fail")
		return storage.Unavailable{}, nil

	case config.StorageGorm:
		conn, err := db.Open(p.Config, log)
		if err != nil {
			return nil, err
		}
		p.Lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return gormstore.New(conn)

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     p.Config.RedisAddr,
			Password: p.Config.RedisPassword,
			DB:       p.Config.RedisDB,
		})
		p.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis ping %s: %w", p.Config.RedisAddr, err)
				}
				log.Info("redis storage connected", zap.String("addr", p.Config.RedisAddr))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return redisstore.New(client, p.Config.RedisPrefix), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", p.Config.StorageBackend)
	}
}
