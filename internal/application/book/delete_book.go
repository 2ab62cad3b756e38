package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
// 设计说明:
// 1. 图书和它的全部点赞在同一事务中删除
// 2. 缓存在事务提交后才清理
// 3. 直接删除(GET /delete)和确认后删除(POST /delete-confirm)共用此用例
type DeleteBookUseCase struct {
	books     book.Service
	likes     like.Repository
	txManager *gormdb.TxManager
	publisher event.Publisher
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(books book.Service, likes like.Repository, txManager *gormdb.TxManager, publisher event.Publisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, likes: likes, txManager: txManager, publisher: publisher}
}

// DeleteBookRequest 删除请求
type DeleteBookRequest struct {
	Slug    string
	ActorID uint

	// RequireConfirm 为true时必须Confirmed才执行删除
	RequireConfirm bool
	Confirmed      bool
}

// DeleteBookResponse 删除响应
type DeleteBookResponse struct {
	Message string
	Slug    string
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, req DeleteBookRequest) (resp *DeleteBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Delete")
	defer func() { tracing.End(span, err) }()

	// 1. 查询图书 + 权限检查(不存在返回NotFound，非创建者返回Forbidden)
	b, err := uc.books.GetOwned(ctx, req.Slug, req.ActorID)
	if err != nil {
		return nil, err
	}

	if req.RequireConfirm && !req.Confirmed {
		return nil, book.ErrConfirmationRequired
	}

	// 2. 事务：点赞 + 图书
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.likes.DeleteByBook(ctx, b.ID); err != nil {
			return err
		}
		return uc.books.DeleteBook(ctx, b, req.ActorID)
	})
	if err != nil {
		return nil, err
	}
	uc.books.Evict(ctx, b.Slug)

	metrics.IncCounter(metrics.BooksDeletedTotal)
	uc.publisher.Publish(ctx, event.New(event.BookDeleted, event.BookPayload{
		BookID: b.ID, Slug: b.Slug, Title: b.Title, ActorID: req.ActorID,
	}))

	return &DeleteBookResponse{
		Message: fmt.Sprintf("图书《%s》已删除", b.Title),
		Slug:    b.Slug,
	}, nil
}

// DeleteConfirmUseCase 删除确认页
type DeleteConfirmUseCase struct {
	books book.Service
}

// NewDeleteConfirmUseCase 创建删除确认用例
func NewDeleteConfirmUseCase(books book.Service) *DeleteConfirmUseCase {
	return &DeleteConfirmUseCase{books: books}
}

// DeleteConfirmResponse 确认页上下文
type DeleteConfirmResponse struct {
	Book   BookView `json:"book"`
	Prompt string   `json:"prompt"`
}

// Execute 查询待删除的图书(仅创建者)
func (uc *DeleteConfirmUseCase) Execute(ctx context.Context, slug string, actorID uint) (*DeleteConfirmResponse, error) {
	b, err := uc.books.GetOwned(ctx, slug, actorID)
	if err != nil {
		return nil, err
	}
	return &DeleteConfirmResponse{
		Book:   toView(b, false),
		Prompt: fmt.Sprintf("确定要删除图书《%s》吗？提交confirm=true确认删除", b.Title),
	}, nil
}
