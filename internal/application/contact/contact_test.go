package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/event"
)

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) {
	p.events = append(p.events, e)
}

func TestSubmitContact(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewSubmitContactUseCase(pub)

	resp, err := uc.Execute(context.Background(), SubmitContactRequest{
		Name:    "  Alice ",
		Email:   "alice@example.com ",
		Message: " 请问可以推荐科幻小说吗？\n",
	})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)

	e := pub.events[0]
	assert.Equal(t, event.ContactSubmitted, e.Type)
	assert.Equal(t, e.ID, resp.EventID)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, event.ContactPayload{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "请问可以推荐科幻小说吗？",
	}, e.Payload)
}
