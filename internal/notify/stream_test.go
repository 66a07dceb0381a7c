package notify

import (
	"context"
	"testing"
	"time"

	"health-connect-demo/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStreamDeliversToSubscriber(t *testing.T) {
	stream := NewMemoryStream()
	defer stream.Close()

	ctx := context.Background()
	sub, err := stream.Subscribe(ctx, 7)
	require.NoError(t, err)
	defer sub.Close()

	event := Event{
		Kind:           EventInsert,
		ConsultationID: 7,
		Message:        models.ChatMessage{ID: "m1", ConsultationID: 7, Content: "hello"},
	}
	require.NoError(t, stream.Publish(ctx, event))

	select {
	case got := <-sub.Events():
		assert.Equal(t, "m1", got.Message.ID)
		assert.Equal(t, EventInsert, got.Kind)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryStreamFiltersByConsultation(t *testing.T) {
	stream := NewMemoryStream()
	defer stream.Close()

	ctx := context.Background()
	sub, err := stream.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, stream.Publish(ctx, Event{
		Kind:           EventInsert,
		ConsultationID: 2,
		Message:        models.ChatMessage{ID: "other", ConsultationID: 2},
	}))

	select {
	case got := <-sub.Events():
		t.Fatalf("received event for another consultation: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemorySubscriptionCloseIsIdempotent(t *testing.T) {
	stream := NewMemoryStream()
	defer stream.Close()

	sub, err := stream.Subscribe(context.Background(), 3)
	require.NoError(t, err)

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())

	// Publishing after close must not panic
	assert.NoError(t, stream.Publish(context.Background(), Event{Kind: EventInsert, ConsultationID: 3}))
}
