package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// AddBookUseCase 添加图书用例
// 设计说明:
// 1. 应用层负责用例编排：校验分类 → 领域服务创建 → 指标 → 领域事件
// 2. 输入字段已由HTTP层按请求DTO校验，这里只做需要查库的校验
type AddBookUseCase struct {
	books      book.Service
	categories category.Service
	publisher  event.Publisher
}

// NewAddBookUseCase 创建添加图书用例
func NewAddBookUseCase(books book.Service, categories category.Service, publisher event.Publisher) *AddBookUseCase {
	return &AddBookUseCase{books: books, categories: categories, publisher: publisher}
}

// AddBookRequest 添加图书请求
type AddBookRequest struct {
	ActorID uint // 当前用户(认证中间件注入)
	BookInput
}

// AddBookResponse 添加图书响应
type AddBookResponse struct {
	Message string
	Book    BookView
}

// Execute 执行添加图书
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (resp *AddBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Add")
	defer func() { tracing.End(span, err) }()

	// 1. 分类必须存在
	if err := checkCategory(ctx, uc.categories, req.CategoryID); err != nil {
		return nil, err
	}

	// 2. 创建图书(生成slug、状态为草稿)
	b, err := uc.books.AddBook(ctx, req.fields(), req.ActorID)
	if err != nil {
		return nil, err
	}
	b.CategoryName = categoryName(ctx, uc.categories, b.CategoryID)

	metrics.IncCounter(metrics.BooksCreatedTotal)
	uc.publisher.Publish(ctx, event.New(event.BookCreated, event.BookPayload{
		BookID: b.ID, Slug: b.Slug, Title: b.Title, ActorID: req.ActorID,
	}))

	return &AddBookResponse{
		Message: fmt.Sprintf("图书《%s》添加成功", b.Title),
		Book:    toView(b, false),
	}, nil
}

// checkCategory 分类不存在时返回字段级校验错误
func checkCategory(ctx context.Context, categories category.Service, id uint) error {
	_, err := categories.Get(ctx, id)
	if errors.Is(err, category.ErrCategoryNotFound) {
		return apperrors.Validation(apperrors.FieldError{
			Field: "category_id", Rule: "exists", Message: "分类不存在",
		})
	}
	return err
}

func categoryName(ctx context.Context, categories category.Service, id uint) string {
	c, err := categories.Get(ctx, id)
	if err != nil {
		return ""
	}
	return c.Name
}

// AddFormUseCase 添加图书表单(分类列表)
type AddFormUseCase struct {
	categories category.Service
}

// NewAddFormUseCase 创建添加表单用例
func NewAddFormUseCase(categories category.Service) *AddFormUseCase {
	return &AddFormUseCase{categories: categories}
}

// AddFormResponse 表单上下文
type AddFormResponse struct {
	Categories []CategoryView `json:"categories"`
}

// Execute 查询表单上下文
func (uc *AddFormUseCase) Execute(ctx context.Context) (*AddFormResponse, error) {
	cs, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &AddFormResponse{Categories: toCategoryViews(cs)}, nil
}
