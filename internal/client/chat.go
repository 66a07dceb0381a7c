package client

import (
	"context"
	"sync"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
)

// MessageSender performs the single insert a send maps to
type MessageSender interface {
	SendMessage(ctx context.Context, consultationID, senderID uint, req *models.SendMessageRequest, isAI bool) (*models.ChatMessage, error)
}

// ChatController maintains the ordered transcript of one consultation.
// All transcript mutation happens on a single event loop goroutine, so
// near-simultaneous insert events cannot interleave an append. Appends are
// idempotent by message id.
type ChatController struct {
	consultationID uint
	userID         uint
	sender         MessageSender
	sub            notify.Subscription

	mu         sync.RWMutex
	transcript []models.ChatMessage
	seen       map[string]bool
	listening  bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewChatController subscribes to the consultation's change stream and starts
// the transcript loop. The subscription is released by Close on every exit
// path, including stream shutdown.
func NewChatController(ctx context.Context, stream notify.Stream, sender MessageSender, consultationID, userID uint) (*ChatController, error) {
	sub, err := stream.Subscribe(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	c := &ChatController{
		consultationID: consultationID,
		userID:         userID,
		sender:         sender,
		sub:            sub,
		seen:           make(map[string]bool),
		done:           make(chan struct{}),
	}

	go c.run()

	return c, nil
}

// run is the single writer of the transcript
func (c *ChatController) run() {
	defer c.Close()

	for {
		select {
		case event, ok := <-c.sub.Events():
			if !ok {
				return
			}
			if event.Kind == notify.EventInsert {
				c.append(event.Message)
			}
		case <-c.done:
			return
		}
	}
}

// append adds a message in arrival order, ignoring duplicate ids
func (c *ChatController) append(msg models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seen[msg.ID] {
		return
	}
	c.seen[msg.ID] = true
	c.transcript = append(c.transcript, msg)
}

// Transcript returns a copy of the current transcript
func (c *ChatController) Transcript() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Send performs a single insert. The message reaches the transcript through
// the stream like everyone else's; there is no optimistic local echo.
func (c *ChatController) Send(ctx context.Context, content string) error {
	_, err := c.sender.SendMessage(ctx, c.consultationID, c.userID, &models.SendMessageRequest{
		Content:     content,
		MessageType: models.MessageTypeText,
	}, false)
	return err
}

// ToggleListening flips the stubbed voice-capture flag. It resets itself
// after a fixed delay; no audio is captured.
func (c *ChatController) ToggleListening() bool {
	c.mu.Lock()
	c.listening = !c.listening
	now := c.listening
	c.mu.Unlock()

	if now {
		go func() {
			time.Sleep(3 * time.Second)
			c.mu.Lock()
			c.listening = false
			c.mu.Unlock()
		}()
	}

	return now
}

// Listening reports the stubbed capture flag
func (c *ChatController) Listening() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listening
}

// Close releases the stream subscription. Safe to call more than once.
func (c *ChatController) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.sub.Close()
	})
	return err
}
