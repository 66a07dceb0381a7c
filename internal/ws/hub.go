package ws

import (
	"context"
	"encoding/json"
	"sync"

	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/pkg/logger"
)

// Envelope is the frame format exchanged with websocket clients
type Envelope struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// room tracks the clients of one consultation and its stream subscription
type room struct {
	clients map[*Client]bool
	sub     notify.Subscription
	cancel  context.CancelFunc
}

// Hub fans consultation chat events out to connected websocket clients.
// Each consultation with at least one connected client holds exactly one
// stream subscription; the hub's Run loop is the single owner of room state.
type Hub struct {
	rooms      map[uint]*room
	register   chan *Client
	unregister chan *Client
	events     chan notify.Event
	stream     notify.Stream
	log        *logger.Logger
	mu         sync.Mutex
}

// NewHub creates a hub backed by the given change-notification stream
func NewHub(stream notify.Stream, log *logger.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uint]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan notify.Event, 64),
		stream:     stream,
		log:        log,
	}
}

// Run owns all room state. Register, unregister and event delivery are
// serialized here so no lock ordering issues can arise between fan-out and
// subscription lifecycle.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.events:
			h.deliver(event)

		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[client.ConsultationID]
	if !ok {
		r = &room{clients: make(map[*Client]bool)}

		subCtx, cancel := context.WithCancel(ctx)
		sub, err := h.stream.Subscribe(subCtx, client.ConsultationID)
		if err != nil {
			cancel()
			h.log.LogError(err, "Failed to subscribe to consultation stream",
				"consultation_id", client.ConsultationID)
		} else {
			r.sub = sub
			r.cancel = cancel
			go h.forward(sub)
		}

		h.rooms[client.ConsultationID] = r
	}

	r.clients[client] = true
	h.log.Debug("Websocket client joined",
		"consultation_id", client.ConsultationID,
		"user_id", client.UserID,
	)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[client.ConsultationID]
	if !ok || !r.clients[client] {
		return
	}

	delete(r.clients, client)
	close(client.Send)

	if len(r.clients) == 0 {
		h.closeRoom(client.ConsultationID, r)
	}
}

// forward pushes stream events into the hub's event channel
func (h *Hub) forward(sub notify.Subscription) {
	for event := range sub.Events() {
		h.events <- event
	}
}

func (h *Hub) deliver(event notify.Event) {
	payload, err := json.Marshal(Envelope{Type: "message", Content: event.Message})
	if err != nil {
		h.log.LogError(err, "Failed to encode stream event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[event.ConsultationID]
	if !ok {
		return
	}

	for client := range r.clients {
		select {
		case client.Send <- payload:
		default:
			// Slow client; drop it rather than stall the room
			delete(r.clients, client)
			close(client.Send)
		}
	}

	if len(r.clients) == 0 {
		h.closeRoom(event.ConsultationID, r)
	}
}

// closeRoom releases the room's subscription. Caller holds h.mu.
func (h *Hub) closeRoom(consultationID uint, r *room) {
	if r.sub != nil {
		r.sub.Close()
	}
	if r.cancel != nil {
		r.cancel()
	}
	delete(h.rooms, consultationID)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, r := range h.rooms {
		for client := range r.clients {
			close(client.Send)
		}
		r.clients = make(map[*Client]bool)
		h.closeRoom(id, r)
	}
}
