package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// keyPrefix 所有key的命名空间
const keyPrefix = "bookshelf:"

// pingTimeout 未配置dial_timeout时启动探活的超时
const pingTimeout = 5 * time.Second

// NewClient 创建Redis客户端
// 设计说明：
// 1. 配置连接池参数（PoolSize、MinIdleConns）
// 2. 配置超时参数（DialTimeout、ReadTimeout、WriteTimeout）
// 3. 测试连接可用性，返回的cleanup在程序退出时关闭连接池
func NewClient(cfg *config.Config, log *zap.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	timeout := cfg.Redis.DialTimeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("Redis连接失败(%s): %w", cfg.Redis.Addr(), err)
	}

	log.Info("Redis连接成功", zap.String("addr", cfg.Redis.Addr()))
	return client, func() { _ = client.Close() }, nil
}
