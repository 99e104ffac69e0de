package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mapping-manager/internal/clients/redis"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

type Clients struct {
	// Redis is nil when no shared cache is configured.
	Redis goredis.UniversalClient
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var rdb goredis.UniversalClient
	if cfg.RedisAddr != "" {
		c, err := redis.NewClient(ctx, log, cfg.RedisAddr)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		rdb = c
	}
	return Clients{Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
