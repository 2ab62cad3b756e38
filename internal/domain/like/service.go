package like

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// Service 点赞领域服务
// 设计说明:
// 1. 点赞总是以slug定位图书，图书不存在时返回book.ErrBookNotFound
// 2. 切换是对称的：连续切换两次恢复原状态
type Service interface {
	// Toggle 切换点赞，返回图书和切换后的状态
	Toggle(ctx context.Context, slug string, actorID uint) (*book.Book, bool, error)

	// Remove 从收藏中移除(未点赞时无操作)，返回图书和是否确实移除了点赞
	Remove(ctx context.Context, slug string, actorID uint) (*book.Book, bool, error)

	// Annotate 计算actorID对一组图书的点赞标记
	Annotate(ctx context.Context, actorID uint, books []*book.Book) (map[uint]bool, error)

	// Status 单本图书的点赞状态和点赞数
	Status(ctx context.Context, bookID, actorID uint) (liked bool, count int64, err error)
}

type service struct {
	repo  Repository
	books book.Repository
}

// NewService 创建点赞服务
func NewService(repo Repository, books book.Repository) Service {
	return &service{repo: repo, books: books}
}

// Toggle 切换点赞
func (s *service) Toggle(ctx context.Context, slug string, actorID uint) (*book.Book, bool, error) {
	b, err := s.books.FindBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	liked, err := s.repo.Toggle(ctx, b.ID, actorID)
	if err != nil {
		return nil, false, err
	}
	return b, liked, nil
}

// Remove 从收藏中移除
func (s *service) Remove(ctx context.Context, slug string, actorID uint) (*book.Book, bool, error) {
	b, err := s.books.FindBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	removed, err := s.repo.Remove(ctx, b.ID, actorID)
	if err != nil {
		return nil, false, err
	}
	return b, removed, nil
}

// Annotate 批量计算点赞标记
func (s *service) Annotate(ctx context.Context, actorID uint, books []*book.Book) (map[uint]bool, error) {
	if len(books) == 0 {
		return map[uint]bool{}, nil
	}

	ids := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return s.repo.LikedBookIDs(ctx, actorID, ids)
}

// Status 单本图书的点赞状态
func (s *service) Status(ctx context.Context, bookID, actorID uint) (bool, int64, error) {
	liked, err := s.repo.Exists(ctx, bookID, actorID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.repo.CountByBook(ctx, bookID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
