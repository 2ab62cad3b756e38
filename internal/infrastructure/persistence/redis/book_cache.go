package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// BookCache 图书详情缓存（Cache-Aside）
// 设计说明：
// 1. key为bookshelf:book:{slug}，值为JSON
// 2. 更新、删除图书时主动删除key；TTL兜底
// 3. Redis故障只记录Warn日志，按未命中处理，不影响请求
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *BookCache {
	return &BookCache{client: client, ttl: ttl, log: log.Named("book_cache")}
}

var _ book.Cache = (*BookCache)(nil)

func bookKey(slug string) string {
	return keyPrefix + "book:" + slug
}

// Get 读取缓存
func (c *BookCache) Get(ctx context.Context, slug string) (*book.Book, bool) {
	data, err := c.client.Get(ctx, bookKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("读取图书缓存失败", zap.String("slug", slug), zap.Error(err))
		}
		return nil, false
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		c.log.Warn("图书缓存反序列化失败", zap.String("slug", slug), zap.Error(err))
		return nil, false
	}
	return &b, true
}

// Set 写入缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(b)
	if err != nil {
		c.log.Warn("图书缓存序列化失败", zap.String("slug", b.Slug), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, bookKey(b.Slug), data, c.ttl).Err(); err != nil {
		c.log.Warn("写入图书缓存失败", zap.String("slug", b.Slug), zap.Error(err))
	}
}

// Delete 删除缓存
func (c *BookCache) Delete(ctx context.Context, slugs ...string) {
	if len(slugs) == 0 {
		return
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = bookKey(s)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("删除图书缓存失败", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
