package redisutil

import (
	"context"

	"studysphere-alert/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewClient Redis クライアントを作る
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping 接続確認
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close 接続を閉じる
func Close(client *redis.Client) error {
	return client.Close()
}
