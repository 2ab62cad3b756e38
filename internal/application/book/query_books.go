package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	books book.Service
	likes like.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(books book.Service, likes like.Service) *GetBookUseCase {
	return &GetBookUseCase{books: books, likes: likes}
}

// Execute 查询详情，带当前用户的点赞状态和点赞数
func (uc *GetBookUseCase) Execute(ctx context.Context, slug string, actorID uint) (view *BookView, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Detail")
	defer func() { tracing.End(span, err) }()

	b, err := uc.books.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	liked, count, err := uc.likes.Status(ctx, b.ID, actorID)
	if err != nil {
		return nil, err
	}

	v := toView(b, liked)
	v.LikesCount = &count
	return &v, nil
}

// ListOwnBooksUseCase 当前用户的图书
type ListOwnBooksUseCase struct {
	books book.Service
	likes like.Service
}

// NewListOwnBooksUseCase 创建"我的图书"用例
func NewListOwnBooksUseCase(books book.Service, likes like.Service) *ListOwnBooksUseCase {
	return &ListOwnBooksUseCase{books: books, likes: likes}
}

// Execute 查询当前用户创建的图书
func (uc *ListOwnBooksUseCase) Execute(ctx context.Context, actorID uint, paging Paging) (*ListResult, error) {
	page := paging.page()
	books, total, err := uc.books.ListByOwner(ctx, actorID, page)
	if err != nil {
		return nil, err
	}
	return annotate(ctx, uc.likes, actorID, books, total, page)
}

// SearchBooksUseCase 搜索图书
// 学习要点:
// 1. 空关键词返回全部图书
// 2. 每本书都带上当前用户的点赞标记，整页只查一次点赞表(避免N+1)
type SearchBooksUseCase struct {
	books book.Service
	likes like.Service
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(books book.Service, likes like.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{books: books, likes: likes}
}

// SearchBooksRequest 搜索请求
type SearchBooksRequest struct {
	Query   string
	ActorID uint
	Paging
}

// Execute 执行搜索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (result *ListResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Search")
	defer func() { tracing.End(span, err) }()

	page := req.page()
	books, total, err := uc.books.Search(ctx, book.SearchParams{Query: req.Query, Page: page})
	if err != nil {
		return nil, err
	}
	return annotate(ctx, uc.likes, req.ActorID, books, total, page)
}

// ListFavouritesUseCase 当前用户收藏的图书
type ListFavouritesUseCase struct {
	books book.Service
}

// NewListFavouritesUseCase 创建收藏列表用例
func NewListFavouritesUseCase(books book.Service) *ListFavouritesUseCase {
	return &ListFavouritesUseCase{books: books}
}

// Execute 查询收藏列表(列表中的图书都已被当前用户点赞)
func (uc *ListFavouritesUseCase) Execute(ctx context.Context, actorID uint, paging Paging) (*ListResult, error) {
	page := paging.page()
	books, total, err := uc.books.ListLikedBy(ctx, actorID, page)
	if err != nil {
		return nil, err
	}
	return newListResult(books, total, page, func(uint) bool { return true }), nil
}

func annotate(ctx context.Context, likes like.Service, actorID uint, books []*book.Book, total int64, page book.Page) (*ListResult, error) {
	marks, err := likes.Annotate(ctx, actorID, books)
	if err != nil {
		return nil, err
	}
	return newListResult(books, total, page, func(id uint) bool { return marks[id] }), nil
}
