package like

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

// stubLikes 内存点赞服务，key为slug
type stubLikes struct {
	liked map[string]bool
}

func (s *stubLikes) find(slug string) (*book.Book, error) {
	if slug == "missing" {
		return nil, book.ErrBookNotFound
	}
	return &book.Book{ID: 1, Slug: slug, Title: "Dune"}, nil
}

func (s *stubLikes) Toggle(_ context.Context, slug string, _ uint) (*book.Book, bool, error) {
	b, err := s.find(slug)
	if err != nil {
		return nil, false, err
	}
	s.liked[slug] = !s.liked[slug]
	return b, s.liked[slug], nil
}

func (s *stubLikes) Remove(_ context.Context, slug string, _ uint) (*book.Book, bool, error) {
	b, err := s.find(slug)
	if err != nil {
		return nil, false, err
	}
	removed := s.liked[slug]
	delete(s.liked, slug)
	return b, removed, nil
}

func (s *stubLikes) Annotate(context.Context, uint, []*book.Book) (map[uint]bool, error) {
	return nil, nil
}

func (s *stubLikes) Status(context.Context, uint, uint) (bool, int64, error) { return false, 0, nil }

type recordingPublisher struct{ events []event.Event }

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) { p.events = append(p.events, e) }

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	uc := NewToggleLikeUseCase(&stubLikes{liked: map[string]bool{}}, pub)
	likedBefore := testutil.ToFloat64(metrics.LikeTogglesTotal.WithLabelValues("liked"))

	resp, err := uc.Execute(ctx, ToggleLikeRequest{Slug: "dune", ActorID: 1, Origin: FromDetail})
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, "已收藏《Dune》", resp.Message)
	assert.Equal(t, "/api/v1/books/dune", resp.RedirectTo)

	resp, err = uc.Execute(ctx, ToggleLikeRequest{Slug: "dune", ActorID: 1, Origin: FromSearch, Query: "dune & sand"})
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Equal(t, "已取消收藏《Dune》", resp.Message)
	assert.Equal(t, "/api/v1/books/search?q=dune+%26+sand", resp.RedirectTo)

	require.Len(t, pub.events, 2)
	assert.Equal(t, event.BookLiked, pub.events[0].Type)
	assert.Equal(t, event.BookUnliked, pub.events[1].Type)
	assert.Equal(t, likedBefore+1, testutil.ToFloat64(metrics.LikeTogglesTotal.WithLabelValues("liked")))

	_, err = uc.Execute(ctx, ToggleLikeRequest{Slug: "missing", ActorID: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Len(t, pub.events, 2)
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, "/api/v1/books/search", redirectFor(ToggleLikeRequest{Slug: "dune", Origin: FromSearch}))
	assert.Equal(t, "/api/v1/books/search?q=%E6%B2%99%E4%B8%98", redirectFor(ToggleLikeRequest{Origin: FromSearch, Query: "沙丘"}))
}

func TestRemoveFavourite_Idempotent(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	likes := &stubLikes{liked: map[string]bool{"dune": true}}
	uc := NewRemoveFavouriteUseCase(likes, pub)

	resp, err := uc.Execute(ctx, "dune", 1)
	require.NoError(t, err)
	assert.True(t, resp.Removed)

	resp, err = uc.Execute(ctx, "dune", 1)
	require.NoError(t, err)
	assert.False(t, resp.Removed)
	assert.Equal(t, "《Dune》已从收藏中移除", resp.Message)

	// 只有真正移除时才发布事件
	assert.Len(t, pub.events, 1)
}
