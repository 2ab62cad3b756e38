package book

import (
	"context"
	"errors"
)

// maxSlugRetries 插入时slug唯一索引冲突后重新生成的次数
const maxSlugRetries = 3

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 当前操作者(actorID)由调用方显式传入，领域层不读取任何请求上下文
type Service interface {
	// AddBook 添加图书
	// 业务规则:
	// - slug由标题生成且全局唯一(冲突时追加计数后缀)
	// - 创建者为actorID，状态为草稿
	AddBook(ctx context.Context, fields Fields, actorID uint) (*Book, error)

	// GetBySlug 根据slug获取图书(优先读缓存)
	GetBySlug(ctx context.Context, slug string) (*Book, error)

	// GetOwned 获取图书并校验actorID是创建者
	GetOwned(ctx context.Context, slug string, actorID uint) (*Book, error)

	// UpdateBook 更新图书
	// 业务规则:只有创建者可以修改，slug保持不变
	UpdateBook(ctx context.Context, slug string, actorID uint, fields Fields, status *Status) (*Book, error)

	// DeleteBook 删除图书(调用方负责在同一事务中清理点赞)
	// 业务规则:只有创建者可以删除
	// 不清理缓存：事务提交前清理，并发的详情读取会把旧数据重新写回缓存
	DeleteBook(ctx context.Context, b *Book, actorID uint) error

	// Evict 清理图书缓存，在删除事务提交后调用
	Evict(ctx context.Context, slugs ...string)

	// ListByOwner 用户自己的图书
	ListByOwner(ctx context.Context, ownerID uint, page Page) ([]*Book, int64, error)

	// ListLikedBy 用户收藏的图书
	ListLikedBy(ctx context.Context, userID uint, page Page) ([]*Book, int64, error)

	// Search 搜索(空关键词返回全部)
	Search(ctx context.Context, params SearchParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo  Repository
	slugs *SlugGenerator
	cache Cache
}

// NewService 创建图书领域服务
func NewService(repo Repository, slugs *SlugGenerator, cache Cache) Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &service{repo: repo, slugs: slugs, cache: cache}
}

// AddBook 添加图书
// 学习要点:
// 1. 候选集合只查询"base"和"base-%"，不扫描全表；
//    长标题追加后缀时base会被截断，此时按所有候选共有的最短前缀查询
// 2. 查询候选集合与插入之间存在时间窗口，并发添加同名图书时由唯一索引兜底：
//    捕获ErrSlugTaken后把冲突的slug加入集合重新生成，最多重试maxSlugRetries次
func (s *service) AddBook(ctx context.Context, fields Fields, actorID uint) (*Book, error) {
	b := NewBook(fields, actorID)

	base := s.slugs.Base(b.Title)
	prefix := s.slugs.CandidatePrefix(base)
	taken, err := s.takenSlugs(ctx, base, prefix, nil)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		b.Slug, _ = s.slugs.Generate(b.Title, taken)

		err := s.repo.Create(ctx, b)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return nil, err
		}
		if attempt >= maxSlugRetries {
			return nil, ErrSlugConflict
		}

		if taken, err = s.takenSlugs(ctx, base, prefix, taken); err != nil {
			return nil, err
		}
		taken[b.Slug] = struct{}{}
	}
}

func (s *service) takenSlugs(ctx context.Context, base, prefix string, into map[string]struct{}) (map[string]struct{}, error) {
	slugs, err := s.repo.SlugCandidates(ctx, base, prefix)
	if err != nil {
		return nil, err
	}
	if into == nil {
		into = make(map[string]struct{}, len(slugs))
	}
	for _, slug := range slugs {
		into[slug] = struct{}{}
	}
	return into, nil
}

// GetBySlug 根据slug获取图书
func (s *service) GetBySlug(ctx context.Context, slug string) (*Book, error) {
	if b, ok := s.cache.Get(ctx, slug); ok {
		return b, nil
	}

	b, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, b)
	return b, nil
}

// GetOwned 获取图书并做权限检查
// 写操作前的读取直接查库，不使用缓存
func (s *service) GetOwned(ctx context.Context, slug string, actorID uint) (*Book, error) {
	b, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, slug string, actorID uint, fields Fields, status *Status) (*Book, error) {
	// 1. 查询图书 + 权限检查
	b, err := s.GetOwned(ctx, slug, actorID)
	if err != nil {
		return nil, err
	}

	// 2. 更新信息(slug不变)
	b.Update(fields, status)

	// 3. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, b.Slug)
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, b *Book, actorID uint) error {
	if !b.IsOwnedBy(actorID) {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, b.ID)
}

// Evict 清理图书缓存
func (s *service) Evict(ctx context.Context, slugs ...string) {
	s.cache.Delete(ctx, slugs...)
}

// ListByOwner 用户自己的图书
func (s *service) ListByOwner(ctx context.Context, ownerID uint, page Page) ([]*Book, int64, error) {
	return s.repo.ListByOwner(ctx, ownerID, page)
}

// ListLikedBy 用户收藏的图书
func (s *service) ListLikedBy(ctx context.Context, userID uint, page Page) ([]*Book, int64, error) {
	return s.repo.ListLikedBy(ctx, userID, page)
}

// Search 搜索图书
func (s *service) Search(ctx context.Context, params SearchParams) ([]*Book, int64, error) {
	return s.repo.Search(ctx, params)
}
