package config

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisClient stays nil when REDIS_ADDR is not set. Callers treat a nil
// client as "redis disabled".
var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})
}

func RedisCtx() context.Context {
	return context.Background()
}
