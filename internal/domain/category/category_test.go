package category

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items []*Category
}

func (r *fakeRepo) Create(_ context.Context, c *Category) error {
	for _, it := range r.items {
		if it.Name == c.Name {
			return ErrDuplicateName
		}
	}
	c.ID = uint(len(r.items) + 1)
	r.items = append(r.items, c)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Category, error) {
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *fakeRepo) List(context.Context) ([]*Category, error) { return r.items, nil }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	c, err := svc.Create(ctx, "  Science Fiction ")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", c.Name)
	assert.NotZero(t, c.ID)

	_, err = svc.Create(ctx, "Science Fiction")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, strings.Repeat("科", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
