package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	stream   notify.Stream
	inserted []models.ChatMessage
}

func (s *recordingSender) SendMessage(ctx context.Context, consultationID, senderID uint, req *models.SendMessageRequest, isAI bool) (*models.ChatMessage, error) {
	s.mu.Lock()
	msg := models.ChatMessage{
		ID:             req.Content, // deterministic id for tests
		ConsultationID: consultationID,
		SenderID:       senderID,
		Content:        req.Content,
		MessageType:    req.MessageType,
		CreatedAt:      time.Now(),
	}
	s.inserted = append(s.inserted, msg)
	s.mu.Unlock()

	err := s.stream.Publish(ctx, notify.Event{
		Kind:           notify.EventInsert,
		ConsultationID: consultationID,
		Message:        msg,
	})
	return &msg, err
}

func transcriptIDs(c *ChatController) []string {
	msgs := c.Transcript()
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

func TestChatControllerAppendsInArrivalOrder(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()
	sender := &recordingSender{stream: stream}

	ctx := context.Background()
	controller, err := NewChatController(ctx, stream, sender, 1, 10)
	require.NoError(t, err)
	defer controller.Close()

	require.NoError(t, controller.Send(ctx, "first"))
	require.NoError(t, controller.Send(ctx, "second"))

	require.Eventually(t, func() bool {
		return len(controller.Transcript()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, transcriptIDs(controller))
}

func TestChatControllerIdempotentByID(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	ctx := context.Background()
	controller, err := NewChatController(ctx, stream, &recordingSender{stream: stream}, 2, 10)
	require.NoError(t, err)
	defer controller.Close()

	msg := models.ChatMessage{ID: "dup", ConsultationID: 2, Content: "hello"}
	event := notify.Event{Kind: notify.EventInsert, ConsultationID: 2, Message: msg}

	require.NoError(t, stream.Publish(ctx, event))
	require.NoError(t, stream.Publish(ctx, event))

	require.Eventually(t, func() bool {
		return len(controller.Transcript()) >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"dup"}, transcriptIDs(controller), "duplicate id must be a no-op")
}

func TestChatControllerConcurrentInsertsBothAppear(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	ctx := context.Background()
	controller, err := NewChatController(ctx, stream, &recordingSender{stream: stream}, 3, 10)
	require.NoError(t, err)
	defer controller.Close()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			stream.Publish(ctx, notify.Event{
				Kind:           notify.EventInsert,
				ConsultationID: 3,
				Message:        models.ChatMessage{ID: id, ConsultationID: 3},
			})
		}(id)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(controller.Transcript()) == 2
	}, time.Second, 5*time.Millisecond)

	ids := transcriptIDs(controller)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	// The transcript order is stable once observed
	again := transcriptIDs(controller)
	assert.Equal(t, ids, again)
}

func TestChatControllerNoLocalEcho(t *testing.T) {
	// A sender whose stream publish is disconnected: the transcript must stay
	// empty because sends never append locally.
	silent := notify.NewMemoryStream()
	defer silent.Close()

	visible := notify.NewMemoryStream()
	defer visible.Close()

	sender := &recordingSender{stream: silent}

	ctx := context.Background()
	controller, err := NewChatController(ctx, visible, sender, 4, 10)
	require.NoError(t, err)
	defer controller.Close()

	require.NoError(t, controller.Send(ctx, "ghost"))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, controller.Transcript())
	assert.Len(t, sender.inserted, 1, "the insert itself must still happen")
}

func TestChatControllerCloseIdempotent(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	controller, err := NewChatController(context.Background(), stream, &recordingSender{stream: stream}, 5, 10)
	require.NoError(t, err)

	assert.NoError(t, controller.Close())
	assert.NoError(t, controller.Close())
}
