package repository

import (
	"context"
	"fmt"

	"go-acquire/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedis 创建客户端并 Ping 一次确认可用
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}
	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))
	return rdb, nil
}
