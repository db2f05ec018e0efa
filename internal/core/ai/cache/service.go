package cache

import (
	"context"
	"fmt"

	"zomato-recommender/internal/infrastructure/config"
	"zomato-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Backend 緩存後端介面，鍵與值皆為字串
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewBackend 依設定選擇緩存後端；緩存停用時回傳 nil
func NewBackend(cfg *config.Config) (Backend, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		return NewRedisBackend(cfg)
	case "memory":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// RedisBackend 基於 Redis 的緩存後端
type RedisBackend struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisBackend 創建 Redis 緩存後端
func NewRedisBackend(cfg *config.Config) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("addr", cfg.Cache.RedisAddr),
	)

	return &RedisBackend{
		client: client,
		config: &cfg.Cache,
	}, nil
}

// Get 獲取緩存
func (s *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set 設置緩存
func (s *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連接
func (s *RedisBackend) Close() error {
	return s.client.Close()
}
