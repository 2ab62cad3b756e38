package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := New(BookCreated, BookPayload{BookID: 1, Slug: "dune"})
	b := New(BookCreated, nil)

	assert.Equal(t, BookCreated, a.Type)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
	assert.Equal(t, "UTC", a.OccurredAt.Location().String())
}
