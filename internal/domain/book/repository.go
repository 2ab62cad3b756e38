package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有列表按创建时间倒序(created_at DESC, id DESC)
// 3. 删除为物理删除，点赞记录由调用方在同一事务中清理
type Repository interface {
	// Create 创建图书
	// slug唯一索引冲突时返回ErrSlugTaken
	Create(ctx context.Context, book *Book) error

	// FindBySlug 根据slug查找图书(带出分类名)
	FindBySlug(ctx context.Context, slug string) (*Book, error)

	// Update 更新图书信息(slug不更新)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// DeleteByOwner 删除某用户创建的全部图书，返回被删除图书的slug(用于清理缓存)
	DeleteByOwner(ctx context.Context, ownerID uint) ([]string, error)

	// ListByOwner 某用户创建的图书
	ListByOwner(ctx context.Context, ownerID uint, page Page) ([]*Book, int64, error)

	// ListLikedBy 某用户点赞的图书
	ListLikedBy(ctx context.Context, userID uint, page Page) ([]*Book, int64, error)

	// Search 按标题、作者、分类名不区分大小写子串匹配；Query为空返回全部
	Search(ctx context.Context, params SearchParams) ([]*Book, int64, error)

	// CountByOwner 某用户创建的图书数量
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)

	// SlugCandidates slug生成的候选集合
	// prefix等于base时返回等于base或以"base-"开头的已用slug；
	// prefix比base短(长标题追加后缀会截断base)时返回以prefix开头的全部已用slug
	SlugCandidates(ctx context.Context, base, prefix string) ([]string, error)
}

// Page 分页参数
// Size<=0 表示不分页，返回全部结果
type Page struct {
	Number int // 页码(从1开始)
	Size   int // 每页数量
}

// Offset 偏移量
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// SearchParams 搜索参数
type SearchParams struct {
	Query string
	Page  Page
}
