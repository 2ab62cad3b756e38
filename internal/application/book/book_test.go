package book

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var dbSeq atomic.Int64

type harness struct {
	add       *AddBookUseCase
	update    *UpdateBookUseCase
	del       *DeleteBookUseCase
	confirm   *DeleteConfirmUseCase
	detail    *GetBookUseCase
	own       *ListOwnBooksUseCase
	search    *SearchBooksUseCase
	favs      *ListFavouritesUseCase
	editForm  *EditFormUseCase
	addForm   *AddFormUseCase
	likes     like.Service
	category  *category.Category
	publisher *recordingPublisher

	bookRepo book.Repository
	likeRepo like.Repository
	tx       *gormdb.TxManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := gormdb.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("file:app_book_%d?mode=memory&cache=shared", dbSeq.Add(1)),
		MaxOpenConns: 1,
	}, false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, gormdb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	bookRepo := gormdb.NewBookRepository(db)
	likeRepo := gormdb.NewLikeRepository(db)
	books := book.NewService(bookRepo, book.NewSlugGenerator(100, 1000), nil)
	likes := like.NewService(likeRepo, bookRepo)
	categories := category.NewService(gormdb.NewCategoryRepository(db))
	pub := &recordingPublisher{}

	c, err := categories.Create(context.Background(), "Science Fiction")
	require.NoError(t, err)

	// 用户ID依次为1、2、3
	users := gormdb.NewUserRepository(db)
	for _, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		require.NoError(t, users.Create(context.Background(), user.NewUser(email, "hash", "nick")))
	}

	return &harness{
		add:       NewAddBookUseCase(books, categories, pub),
		update:    NewUpdateBookUseCase(books, categories, pub),
		del:       NewDeleteBookUseCase(books, likeRepo, gormdb.NewTxManager(db), pub),
		confirm:   NewDeleteConfirmUseCase(books),
		detail:    NewGetBookUseCase(books, likes),
		own:       NewListOwnBooksUseCase(books, likes),
		search:    NewSearchBooksUseCase(books, likes),
		favs:      NewListFavouritesUseCase(books),
		editForm:  NewEditFormUseCase(books, categories),
		addForm:   NewAddFormUseCase(categories),
		likes:     likes,
		category:  c,
		publisher: pub,
		bookRepo:  bookRepo,
		likeRepo:  likeRepo,
		tx:        gormdb.NewTxManager(db),
	}
}

func (h *harness) addDune(t *testing.T, actor uint) *AddBookResponse {
	t.Helper()
	resp, err := h.add.Execute(context.Background(), AddBookRequest{
		ActorID: actor,
		BookInput: BookInput{
			Title: "Dune", Author: "Frank Herbert", FullDescription: "Arrakis", Image: "covers/dune.jpg",
			CategoryID: h.category.ID,
		},
	})
	require.NoError(t, err)
	return resp
}

func slugs(r *ListResult) []string {
	out := make([]string, len(r.Books))
	for i, b := range r.Books {
		out[i] = b.Slug
	}
	return out
}

func TestScenario_SlugsLikesAndSearch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	const alice, bob = 1, 2

	first := h.addDune(t, alice)
	second := h.addDune(t, alice)
	assert.Equal(t, "dune", first.Book.Slug)
	assert.Equal(t, "dune-1", second.Book.Slug)
	assert.Equal(t, "图书《Dune》添加成功", first.Message)
	assert.Equal(t, "draft", first.Book.Status)
	assert.Equal(t, "Science Fiction", first.Book.CategoryName)

	// alice切换两次
	_, liked, err := h.likes.Toggle(ctx, "dune", alice)
	require.NoError(t, err)
	assert.True(t, liked)
	view, err := h.detail.Execute(ctx, "dune", alice)
	require.NoError(t, err)
	assert.True(t, view.LikedByUser)
	assert.EqualValues(t, 1, *view.LikesCount)

	_, liked, err = h.likes.Toggle(ctx, "dune", alice)
	require.NoError(t, err)
	assert.False(t, liked)

	// bob搜索dun
	res, err := h.search.Execute(ctx, SearchBooksRequest{Query: "dun", ActorID: bob})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.ElementsMatch(t, []string{"dune", "dune-1"}, slugs(res))
	for _, b := range res.Books {
		assert.False(t, b.LikedByUser)
	}

	assert.Equal(t, []string{event.BookCreated, event.BookCreated}, h.publisher.types())
}

func TestAddBook_UnknownCategory(t *testing.T) {
	h := newHarness(t)

	_, err := h.add.Execute(context.Background(), AddBookRequest{
		ActorID:   1,
		BookInput: BookInput{Title: "Dune", Author: "F", FullDescription: "x", Image: "i", CategoryID: 999},
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "category_id", appErr.Fields[0].Field)

	res, err := h.search.Execute(context.Background(), SearchBooksRequest{ActorID: 1})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestUpdateBook_OwnerOnlyAndSlugStable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDune(t, 1)

	input := BookInput{Title: "Dune Messiah", Author: "Frank Herbert", FullDescription: "x", Image: "i", CategoryID: h.category.ID, Status: "published"}

	_, err := h.update.Execute(ctx, UpdateBookRequest{Slug: "dune", ActorID: 2, BookInput: input})
	assert.ErrorIs(t, err, book.ErrForbidden)

	_, err = h.update.Execute(ctx, UpdateBookRequest{Slug: "nope", ActorID: 1, BookInput: input})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	bad := input
	bad.Status = "archived"
	_, err = h.update.Execute(ctx, UpdateBookRequest{Slug: "dune", ActorID: 1, BookInput: bad})
	requireCode(t, err, apperrors.ErrCodeInvalidParams)

	resp, err := h.update.Execute(ctx, UpdateBookRequest{Slug: "dune", ActorID: 1, BookInput: input})
	require.NoError(t, err)
	assert.Equal(t, "dune", resp.Book.Slug)
	assert.Equal(t, "Dune Messiah", resp.Book.Title)
	assert.Equal(t, "published", resp.Book.Status)

	form, err := h.editForm.Execute(ctx, "dune", 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", form.Book.Title)
	assert.Len(t, form.Categories, 1)

	_, err = h.editForm.Execute(ctx, "dune", 2)
	assert.ErrorIs(t, err, book.ErrForbidden)
}

func TestDeleteBook_RemovesLikes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDune(t, 1)

	for _, actor := range []uint{1, 2, 3} {
		_, _, err := h.likes.Toggle(ctx, "dune", actor)
		require.NoError(t, err)
	}

	_, err := h.del.Execute(ctx, DeleteBookRequest{Slug: "dune", ActorID: 2})
	assert.ErrorIs(t, err, book.ErrForbidden)

	_, err = h.del.Execute(ctx, DeleteBookRequest{Slug: "dune", ActorID: 1, RequireConfirm: true})
	assert.ErrorIs(t, err, book.ErrConfirmationRequired)

	prompt, err := h.confirm.Execute(ctx, "dune", 1)
	require.NoError(t, err)
	assert.Equal(t, "dune", prompt.Book.Slug)
	assert.NotEmpty(t, prompt.Prompt)

	resp, err := h.del.Execute(ctx, DeleteBookRequest{Slug: "dune", ActorID: 1, RequireConfirm: true, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, "dune", resp.Slug)

	for _, actor := range []uint{1, 2, 3} {
		favs, err := h.favs.Execute(ctx, actor, Paging{})
		require.NoError(t, err)
		assert.Empty(t, favs.Books)
	}

	_, err = h.detail.Execute(ctx, "dune", 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = h.del.Execute(ctx, DeleteBookRequest{Slug: "dune", ActorID: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// committedReadCache 清理缓存时在事务之外读一次图书
// 测试库只有一个连接，事务未提交时这次读取会等到超时
type committedReadCache struct {
	repo     book.Repository
	evicted  []string
	readErrs []error
}

func (c *committedReadCache) Get(context.Context, string) (*book.Book, bool) { return nil, false }
func (c *committedReadCache) Set(context.Context, *book.Book)                {}

func (c *committedReadCache) Delete(_ context.Context, slugs ...string) {
	for _, slug := range slugs {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		_, err := c.repo.FindBySlug(ctx, slug)
		cancel()

		c.evicted = append(c.evicted, slug)
		c.readErrs = append(c.readErrs, err)
	}
}

func TestDeleteBook_EvictsAfterCommit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	cache := &committedReadCache{repo: h.bookRepo}
	books := book.NewService(h.bookRepo, book.NewSlugGenerator(100, 1000), cache)
	del := NewDeleteBookUseCase(books, h.likeRepo, h.tx, h.publisher)

	h.addDune(t, 1)
	_, err := del.Execute(ctx, DeleteBookRequest{Slug: "dune", ActorID: 1})
	require.NoError(t, err)

	require.Equal(t, []string{"dune"}, cache.evicted)
	// 清理时删除已提交：事务外读取看到的是NotFound而不是等待超时
	assert.ErrorIs(t, cache.readErrs[0], book.ErrBookNotFound)
}

func TestListOwnAndFavourites(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDune(t, 1)
	h.addDune(t, 2)
	h.addDune(t, 1)

	own, err := h.own.Execute(ctx, 1, Paging{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dune-2", "dune"}, slugs(own))

	_, _, err = h.likes.Toggle(ctx, "dune-1", 1)
	require.NoError(t, err)

	favs, err := h.favs.Execute(ctx, 1, Paging{})
	require.NoError(t, err)
	require.Len(t, favs.Books, 1)
	assert.Equal(t, "dune-1", favs.Books[0].Slug)
	assert.True(t, favs.Books[0].LikedByUser)

	res, err := h.search.Execute(ctx, SearchBooksRequest{ActorID: 1, Paging: Paging{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	assert.Len(t, res.Books, 2)
	assert.Equal(t, 2, res.PageSize)

	form, err := h.addForm.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", form.Categories[0].Name)
}

func TestPaging(t *testing.T) {
	assert.Equal(t, book.Page{}, Paging{}.page())
	assert.Equal(t, book.Page{Number: 1, Size: 10}, Paging{PageSize: 10}.page())
	assert.Equal(t, book.Page{Number: 3, Size: MaxPageSize}, Paging{Page: 3, PageSize: 1000}.page())
}

// requireCode 错误链中的AppError带有指定错误码
func requireCode(t *testing.T, err error, code int, msgAndArgs ...interface{}) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, msgAndArgs...)
	assert.Equal(t, code, appErr.Code, msgAndArgs...)
}
