package api

import (
	"context"
	"net/http"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles consultation chat history and message inserts over HTTP
type ChatHandler struct {
	chats         *service.ChatService
	consultations *service.ConsultationService
	logger        *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *service.ChatService, consultations *service.ConsultationService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chats:         chats,
		consultations: consultations,
		logger:        logger,
	}
}

// History returns the transcript of a consultation
func (h *ChatHandler) History(c *gin.Context) {
	consultationID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation id"})
		return
	}

	if !h.authorize(c, consultationID) {
		return
	}

	messages, err := h.chats.History(consultationID)
	if err != nil {
		h.logger.Error("Error fetching chat history", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send inserts a message into the consultation transcript
func (h *ChatHandler) Send(c *gin.Context) {
	consultationID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation id"})
		return
	}

	if !h.authorize(c, consultationID) {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	msg, err := h.chats.SendMessage(c.Request.Context(), consultationID, userID, &req, false)
	if err != nil {
		h.logger.Error("Error inserting chat message", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Assistant replies arrive over the stream; the HTTP response only
	// acknowledges the insert.
	go func() {
		ctx, cancel := contextWithTimeout()
		defer cancel()
		h.chats.GenerateAssistantReply(ctx, consultationID, msg.Content)
	}()

	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) authorize(c *gin.Context, consultationID uint) bool {
	userID := middleware.UserIDFromContext(c)

	ok, err := h.consultations.IsParticipant(consultationID, userID)
	if err != nil {
		if err == service.ErrConsultationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
			return false
		}
		c.Error(err)
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this consultation"})
		return false
	}
	return true
}

// contextWithTimeout bounds background assistant replies independently of the
// originating request
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}
