package like

import (
	"context"
	"fmt"
	"net/url"

	bookapp "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/application/like"

// Origin 点赞请求来自哪个页面，决定跳转目标
type Origin int

const (
	FromSearch Origin = iota // 搜索列表，跳回搜索并保留q
	FromDetail               // 详情页，跳回详情
)

// ToggleLikeUseCase 切换点赞用例
type ToggleLikeUseCase struct {
	likes     like.Service
	publisher event.Publisher
}

// NewToggleLikeUseCase 创建切换点赞用例
func NewToggleLikeUseCase(likes like.Service, publisher event.Publisher) *ToggleLikeUseCase {
	return &ToggleLikeUseCase{likes: likes, publisher: publisher}
}

// ToggleLikeRequest 切换点赞请求
type ToggleLikeRequest struct {
	Slug    string
	ActorID uint
	Origin  Origin
	Query   string // 搜索关键词(FromSearch时用于跳转)
}

// ToggleLikeResponse 切换结果
type ToggleLikeResponse struct {
	Slug       string `json:"slug"`
	Liked      bool   `json:"liked"`
	Message    string `json:"-"`
	RedirectTo string `json:"-"`
}

// Execute 执行切换
func (uc *ToggleLikeUseCase) Execute(ctx context.Context, req ToggleLikeRequest) (resp *ToggleLikeResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "like.Toggle")
	defer func() { tracing.End(span, err) }()

	b, liked, err := uc.likes.Toggle(ctx, req.Slug, req.ActorID)
	if err != nil {
		return nil, err
	}

	action, eventType, msg := "liked", event.BookLiked, fmt.Sprintf("已收藏《%s》", b.Title)
	if !liked {
		action, eventType, msg = "unliked", event.BookUnliked, fmt.Sprintf("已取消收藏《%s》", b.Title)
	}
	metrics.IncCounterVec(metrics.LikeTogglesTotal, map[string]string{"action": action})
	uc.publisher.Publish(ctx, event.New(eventType, payload(b, req.ActorID)))

	return &ToggleLikeResponse{
		Slug:       b.Slug,
		Liked:      liked,
		Message:    msg,
		RedirectTo: redirectFor(req),
	}, nil
}

// redirectFor 跳转目标
// 搜索页跳回时保留关键词(需要URL编码)，没有关键词时跳回搜索首页
func redirectFor(req ToggleLikeRequest) string {
	if req.Origin == FromDetail {
		return bookapp.DetailPath(req.Slug)
	}
	if req.Query == "" {
		return bookapp.SearchPath
	}
	return bookapp.SearchPath + "?q=" + url.QueryEscape(req.Query)
}

// RemoveFavouriteUseCase 从收藏中移除(无条件、幂等)
type RemoveFavouriteUseCase struct {
	likes     like.Service
	publisher event.Publisher
}

// NewRemoveFavouriteUseCase 创建移除收藏用例
func NewRemoveFavouriteUseCase(likes like.Service, publisher event.Publisher) *RemoveFavouriteUseCase {
	return &RemoveFavouriteUseCase{likes: likes, publisher: publisher}
}

// RemoveFavouriteResponse 移除结果
type RemoveFavouriteResponse struct {
	Slug    string `json:"slug"`
	Removed bool   `json:"removed"`
	Message string `json:"-"`
}

// Execute 执行移除
func (uc *RemoveFavouriteUseCase) Execute(ctx context.Context, slug string, actorID uint) (resp *RemoveFavouriteResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "like.Remove")
	defer func() { tracing.End(span, err) }()

	b, removed, err := uc.likes.Remove(ctx, slug, actorID)
	if err != nil {
		return nil, err
	}

	if removed {
		metrics.IncCounterVec(metrics.LikeTogglesTotal, map[string]string{"action": "removed"})
		uc.publisher.Publish(ctx, event.New(event.BookUnliked, payload(b, actorID)))
	}

	return &RemoveFavouriteResponse{
		Slug:    b.Slug,
		Removed: removed,
		Message: fmt.Sprintf("《%s》已从收藏中移除", b.Title),
	}, nil
}

func payload(b *book.Book, actorID uint) event.BookPayload {
	return event.BookPayload{BookID: b.ID, Slug: b.Slug, Title: b.Title, ActorID: actorID}
}
