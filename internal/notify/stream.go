package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Event kinds carried on the stream
const (
	EventInsert = "insert"
)

// Event is a change notification for a consultation transcript
type Event struct {
	Kind           string             `json:"kind"`
	ConsultationID uint               `json:"consultation_id"`
	Message        models.ChatMessage `json:"message"`
}

// Subscription is a scoped acquisition of a stream channel. Close releases it;
// closing twice is safe.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Stream publishes and delivers transcript change notifications
type Stream interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe delivers events for one consultation only
	Subscribe(ctx context.Context, consultationID uint) (Subscription, error)
	Close() error
}

func channelFor(consultationID uint) string {
	return fmt.Sprintf("chat:consultation:%d", consultationID)
}

// RedisStream is a Stream backed by Redis pub/sub
type RedisStream struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisStream creates a Redis-backed stream
func NewRedisStream(client *redis.Client, log *logger.Logger) *RedisStream {
	return &RedisStream{client: client, log: log}
}

// Publish sends an event to the consultation channel
func (s *RedisStream) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	return s.client.Publish(ctx, channelFor(event.ConsultationID), payload).Err()
}

// Subscribe opens a channel-scoped subscription
func (s *RedisStream) Subscribe(ctx context.Context, consultationID uint) (Subscription, error) {
	pubsub := s.client.Subscribe(ctx, channelFor(consultationID))

	// Force the subscription to be established before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("error establishing subscription: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.Warn("Dropping undecodable stream event", "error", err.Error())
				continue
			}
			select {
			case sub.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// Close shuts down the underlying Redis client
func (s *RedisStream) Close() error {
	return s.client.Close()
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	events    chan Event
	closeOnce sync.Once
	closeErr  error
}

func (s *redisSubscription) Events() <-chan Event {
	return s.events
}

func (s *redisSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}

// MemoryStream is an in-process Stream used when Redis is not configured and
// in tests. Delivery semantics match the Redis stream: per-consultation
// channels, buffered, no replay.
type MemoryStream struct {
	mu     sync.RWMutex
	subs   map[uint]map[*memorySubscription]struct{}
	closed bool
}

// NewMemoryStream creates an in-process stream
func NewMemoryStream() *MemoryStream {
	return &MemoryStream{
		subs: make(map[uint]map[*memorySubscription]struct{}),
	}
}

// Publish delivers the event to all subscribers of the consultation
func (s *MemoryStream) Publish(ctx context.Context, event Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("stream closed")
	}

	for sub := range s.subs[event.ConsultationID] {
		select {
		case sub.events <- event:
		default:
			// Slow subscriber; drop rather than block the publisher
		}
	}
	return nil
}

// Subscribe opens a consultation-scoped subscription
func (s *MemoryStream) Subscribe(ctx context.Context, consultationID uint) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("stream closed")
	}

	sub := &memorySubscription{
		stream:         s,
		consultationID: consultationID,
		events:         make(chan Event, 16),
	}

	if s.subs[consultationID] == nil {
		s.subs[consultationID] = make(map[*memorySubscription]struct{})
	}
	s.subs[consultationID][sub] = struct{}{}

	return sub, nil
}

// Close tears down all subscriptions
func (s *MemoryStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, subs := range s.subs {
		for sub := range subs {
			close(sub.events)
		}
	}
	s.subs = make(map[uint]map[*memorySubscription]struct{})
	return nil
}

type memorySubscription struct {
	stream         *MemoryStream
	consultationID uint
	events         chan Event
	closeOnce      sync.Once
}

func (s *memorySubscription) Events() <-chan Event {
	return s.events
}

func (s *memorySubscription) Close() error {
	s.closeOnce.Do(func() {
		s.stream.mu.Lock()
		defer s.stream.mu.Unlock()

		if s.stream.closed {
			return
		}
		delete(s.stream.subs[s.consultationID], s)
		close(s.events)
	})
	return nil
}
