package like

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

type pair struct{ book, user uint }

type fakeLikes struct {
	rows map[pair]struct{}
}

func (f *fakeLikes) Toggle(_ context.Context, bookID, userID uint) (bool, error) {
	k := pair{bookID, userID}
	if _, ok := f.rows[k]; ok {
		delete(f.rows, k)
		return false, nil
	}
	f.rows[k] = struct{}{}
	return true, nil
}

func (f *fakeLikes) Remove(_ context.Context, bookID, userID uint) (bool, error) {
	k := pair{bookID, userID}
	_, ok := f.rows[k]
	delete(f.rows, k)
	return ok, nil
}

func (f *fakeLikes) Exists(_ context.Context, bookID, userID uint) (bool, error) {
	_, ok := f.rows[pair{bookID, userID}]
	return ok, nil
}

func (f *fakeLikes) CountByBook(_ context.Context, bookID uint) (int64, error) {
	var n int64
	for k := range f.rows {
		if k.book == bookID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikes) CountByUser(context.Context, uint) (int64, error) { return 0, nil }

func (f *fakeLikes) LikedBookIDs(_ context.Context, userID uint, bookIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	for _, id := range bookIDs {
		if _, ok := f.rows[pair{id, userID}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeLikes) DeleteByBook(context.Context, uint) error         { return nil }
func (f *fakeLikes) DeleteByUser(context.Context, uint) error         { return nil }
func (f *fakeLikes) DeleteByBooksOwnedBy(context.Context, uint) error { return nil }

// fakeBooks 只实现FindBySlug
type fakeBooks struct {
	book.Repository
	bySlug map[string]*book.Book
}

func (f *fakeBooks) FindBySlug(_ context.Context, slug string) (*book.Book, error) {
	b, ok := f.bySlug[slug]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func newTestService() (Service, *fakeLikes) {
	likes := &fakeLikes{rows: map[pair]struct{}{}}
	books := &fakeBooks{bySlug: map[string]*book.Book{
		"dune":   {ID: 1, Slug: "dune", Title: "Dune"},
		"dune-1": {ID: 2, Slug: "dune-1", Title: "Dune"},
	}}
	return NewService(likes, books), likes
}

func TestService_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, liked, err := svc.Toggle(ctx, "dune", 10)
	require.NoError(t, err)
	assert.True(t, liked)

	_, liked, err = svc.Toggle(ctx, "dune", 10)
	require.NoError(t, err)
	assert.False(t, liked)

	ok, count, err := svc.Status(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, count)
}

func TestService_ToggleMissingBook(t *testing.T) {
	svc, likes := newTestService()

	_, _, err := svc.Toggle(context.Background(), "missing", 10)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Empty(t, likes.rows)
}

func TestService_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, likes := newTestService()

	_, removed, err := svc.Remove(ctx, "dune", 10)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, likes.rows)

	_, _, err = svc.Toggle(ctx, "dune", 10)
	require.NoError(t, err)
	_, removed, err = svc.Remove(ctx, "dune", 10)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, likes.rows)

	_, _, err = svc.Remove(ctx, "missing", 10)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_Annotate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, _, err := svc.Toggle(ctx, "dune-1", 10)
	require.NoError(t, err)

	books := []*book.Book{{ID: 1}, {ID: 2}}
	marks, err := svc.Annotate(ctx, 10, books)
	require.NoError(t, err)
	assert.False(t, marks[1])
	assert.True(t, marks[2])

	marks, err = svc.Annotate(ctx, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, marks)
}
