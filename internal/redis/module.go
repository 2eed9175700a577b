package redis

import (
	"github.com/railzwaylabs/billingmock/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewClient returns nil when no redis address is configured; consumers
// must treat a nil client as "feature disabled".
func NewClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Named("redis").Info("redis disabled, no address configured")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)
