package realtime

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/config"
)

// Broadcaster pushes support thread updates to live subscribers of an order.
type Broadcaster interface {
	Broadcast(ctx context.Context, orderID string, payload []byte) error
}

// Module provides the configured broadcaster to Fx.
var Module = fx.Provide(NewBroadcaster)

// Channel returns the pub/sub channel for an order's thread.
func Channel(prefix, orderID string) string {
	return strings.TrimSuffix(prefix, ":") + ":" + orderID
}

// NewBroadcaster publishes over redis when realtime delivery is enabled.
func NewBroadcaster(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) Broadcaster {
	if !cfg.Realtime.Enabled {
		logger.Info("realtime delivery disabled; using noop broadcaster")
		return noopBroadcaster{}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping realtime redis: %w", err)
			}
			logger.Info("realtime broadcaster connected", zap.String("addr", cfg.Cache.Redis.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return &redisBroadcaster{client: client, prefix: cfg.Realtime.ChannelPrefix}
}

type redisBroadcaster struct {
	client goredis.UniversalClient
	prefix string
}

func (r *redisBroadcaster) Broadcast(ctx context.Context, orderID string, payload []byte) error {
	return r.client.Publish(ctx, Channel(r.prefix, orderID), payload).Err()
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(context.Context, string, []byte) error { return nil }
