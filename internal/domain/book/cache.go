package book

import "context"

// Cache 图书详情缓存(按slug)
// 缓存是尽力而为的：实现自行记录错误，读失败按未命中处理，不影响主流程
type Cache interface {
	Get(ctx context.Context, slug string) (*Book, bool)
	Set(ctx context.Context, book *Book)
	Delete(ctx context.Context, slugs ...string)
}

// NopCache 不缓存(关闭缓存或测试时使用)
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Book, bool) { return nil, false }
func (NopCache) Set(context.Context, *Book)                {}
func (NopCache) Delete(context.Context, ...string)         {}
