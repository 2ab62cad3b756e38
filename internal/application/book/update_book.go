package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// UpdateBookUseCase 编辑图书用例
// 业务规则:只有创建者可以编辑，slug不变
type UpdateBookUseCase struct {
	books      book.Service
	categories category.Service
	publisher  event.Publisher
}

// NewUpdateBookUseCase 创建编辑图书用例
func NewUpdateBookUseCase(books book.Service, categories category.Service, publisher event.Publisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{books: books, categories: categories, publisher: publisher}
}

// UpdateBookRequest 编辑图书请求
type UpdateBookRequest struct {
	Slug    string
	ActorID uint
	BookInput
}

// UpdateBookResponse 编辑图书响应
type UpdateBookResponse struct {
	Message string
	Book    BookView
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (resp *UpdateBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Update")
	defer func() { tracing.End(span, err) }()

	status, err := req.status()
	if err != nil {
		return nil, err
	}

	// 先确认图书存在且属于当前用户，再校验分类：不存在的图书返回NotFound而不是校验错误
	if _, err := uc.books.GetOwned(ctx, req.Slug, req.ActorID); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, uc.categories, req.CategoryID); err != nil {
		return nil, err
	}

	b, err := uc.books.UpdateBook(ctx, req.Slug, req.ActorID, req.fields(), status)
	if err != nil {
		return nil, err
	}
	b.CategoryName = categoryName(ctx, uc.categories, b.CategoryID)

	metrics.IncCounter(metrics.BooksUpdatedTotal)
	uc.publisher.Publish(ctx, event.New(event.BookUpdated, event.BookPayload{
		BookID: b.ID, Slug: b.Slug, Title: b.Title, ActorID: req.ActorID,
	}))

	return &UpdateBookResponse{
		Message: fmt.Sprintf("图书《%s》更新成功", b.Title),
		Book:    toView(b, false),
	}, nil
}

// EditFormUseCase 编辑表单(当前图书 + 分类列表)
type EditFormUseCase struct {
	books      book.Service
	categories category.Service
}

// NewEditFormUseCase 创建编辑表单用例
func NewEditFormUseCase(books book.Service, categories category.Service) *EditFormUseCase {
	return &EditFormUseCase{books: books, categories: categories}
}

// EditFormResponse 编辑表单上下文
type EditFormResponse struct {
	Book       BookView       `json:"book"`
	Categories []CategoryView `json:"categories"`
}

// Execute 查询编辑表单(仅创建者)
func (uc *EditFormUseCase) Execute(ctx context.Context, slug string, actorID uint) (*EditFormResponse, error) {
	b, err := uc.books.GetOwned(ctx, slug, actorID)
	if err != nil {
		return nil, err
	}
	cs, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &EditFormResponse{Book: toView(b, false), Categories: toCategoryViews(cs)}, nil
}
