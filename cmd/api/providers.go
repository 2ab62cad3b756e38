package main

import (
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSlugGenerator 按配置创建slug生成器，探测次数和随机后缀上报到Prometheus
func provideSlugGenerator(cfg *config.Config) *book.SlugGenerator {
	g := book.NewSlugGenerator(cfg.Slug.MaxLength, cfg.Slug.MaxAttempts)
	g.OnGenerate = func(probes int, fallback bool) {
		metrics.ObserveHistogram(metrics.SlugProbes, float64(probes))
		if fallback {
			metrics.IncCounter(metrics.SlugFallbackTotal)
		}
	}
	return g
}

// provideBookCache cache.enabled=false时不缓存
func provideBookCache(cfg *config.Config, client *goredis.Client, log *zap.Logger) book.Cache {
	if !cfg.Cache.Enabled {
		return book.NopCache{}
	}
	return redis.NewBookCache(client, cfg.Cache.BookTTL, log)
}
