package ratelimit

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// newRedisClient builds the go-redis client for the shared window store.
func newRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// FXModule wires the request governor into Fx.
var FXModule = fx.Module("ratelimit",
	fx.Provide(
		NewConfig,
		NewGovernor,
	),
)
