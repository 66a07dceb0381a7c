package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversStreamEventsToRoom(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	hub := NewHub(stream, logger.GetGlobal())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{
		Send:           make(chan []byte, 8),
		ConsultationID: 5,
		UserID:         1,
		hub:            hub,
		log:            logger.GetGlobal(),
	}
	hub.register <- client

	// Give the hub time to establish the room subscription
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, stream.Publish(ctx, notify.Event{
		Kind:           notify.EventInsert,
		ConsultationID: 5,
		Message:        models.ChatMessage{ID: "m1", ConsultationID: 5, Content: "hi"},
	}))

	select {
	case frame := <-client.Send:
		var envelope struct {
			Type    string             `json:"type"`
			Content models.ChatMessage `json:"content"`
		}
		require.NoError(t, json.Unmarshal(frame, &envelope))
		assert.Equal(t, "message", envelope.Type)
		assert.Equal(t, "m1", envelope.Content.ID)
	case <-time.After(time.Second):
		t.Fatal("no frame delivered to client")
	}
}

func TestHubIsolatesConsultations(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	hub := NewHub(stream, logger.GetGlobal())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{
		Send:           make(chan []byte, 8),
		ConsultationID: 1,
		hub:            hub,
		log:            logger.GetGlobal(),
	}
	hub.register <- client
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, stream.Publish(ctx, notify.Event{
		Kind:           notify.EventInsert,
		ConsultationID: 2,
		Message:        models.ChatMessage{ID: "other", ConsultationID: 2},
	}))

	select {
	case <-client.Send:
		t.Fatal("received frame for another consultation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	stream := notify.NewMemoryStream()
	defer stream.Close()

	hub := NewHub(stream, logger.GetGlobal())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{
		Send:           make(chan []byte, 8),
		ConsultationID: 9,
		hub:            hub,
		log:            logger.GetGlobal(),
	}
	hub.register <- client
	time.Sleep(20 * time.Millisecond)

	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}
