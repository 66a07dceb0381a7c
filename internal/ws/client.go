package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/jwt"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// Client is one websocket connection scoped to a consultation
type Client struct {
	Conn           *websocket.Conn
	Send           chan []byte
	ConsultationID uint
	UserID         uint
	hub            *Hub
	chatService    *service.ChatService
	log            *logger.Logger
}

// inboundChat is the payload of a "chat" frame from the client
type inboundChat struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type,omitempty"`
}

// ReadPump consumes frames from the peer until the connection drops
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Websocket read error", "error", err.Error())
			}
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.log.Warn("Dropping undecodable websocket frame", "error", err.Error())
			continue
		}

		c.handleFrame(envelope)
	}
}

func (c *Client) handleFrame(envelope Envelope) {
	switch envelope.Type {
	case "chat":
		c.handleChat(envelope)
	case "ping":
		c.sendEnvelope("pong", nil)
	default:
		c.log.Warn("Unknown websocket frame type", "type", envelope.Type)
	}
}

// handleChat inserts the message; delivery back to this and every other
// client in the room happens through the stream, never as a local echo.
func (c *Client) handleChat(envelope Envelope) {
	contentBytes, err := json.Marshal(envelope.Content)
	if err != nil {
		return
	}

	var chat inboundChat
	if err := json.Unmarshal(contentBytes, &chat); err != nil || chat.Content == "" {
		c.sendError("Message content is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, err := c.chatService.SendMessage(ctx, c.ConsultationID, c.UserID, &models.SendMessageRequest{
		Content:     chat.Content,
		MessageType: chat.MessageType,
	}, false)
	if err != nil {
		c.log.LogError(err, "Failed to insert chat message")
		c.sendError("Failed to send message")
		return
	}

	// Kick off an assistant reply without blocking the read loop
	go func() {
		replyCtx, replyCancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer replyCancel()
		c.chatService.GenerateAssistantReply(replyCtx, c.ConsultationID, msg.Content)
	}()
}

func (c *Client) sendEnvelope(frameType string, content interface{}) {
	data, err := json.Marshal(Envelope{Type: frameType, Content: content})
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) sendError(text string) {
	c.sendEnvelope("error", map[string]string{"message": text})
}

// WritePump writes outbound frames and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			n := len(c.Send)
			for i := 0; i < n; i++ {
				extra := <-c.Send
				if err := c.Conn.WriteMessage(websocket.TextMessage, extra); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and attaches the client to its consultation
// room. The caller authenticates with a token query parameter because browser
// websocket clients cannot set headers.
func ServeWs(hub *Hub, chatService *service.ChatService, consultations *service.ConsultationService, log *logger.Logger, c *gin.Context) {
	consultationIDStr := c.Query("consultationId")
	if consultationIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consultationId is required"})
		return
	}

	consultationID, err := strconv.ParseUint(consultationIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consultationId"})
		return
	}

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	claims, err := jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	ok, err := consultations.IsParticipant(uint(consultationID), claims.UserID)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not part of this consultation"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.LogError(err, "Websocket upgrade failed")
		return
	}

	conn.EnableWriteCompression(true)

	client := &Client{
		Conn:           conn,
		Send:           make(chan []byte, 256),
		ConsultationID: uint(consultationID),
		UserID:         claims.UserID,
		hub:            hub,
		chatService:    chatService,
		log:            log.WithConsultation(uint(consultationID)),
	}

	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
