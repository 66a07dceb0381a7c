package service

import (
	"context"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

// ReplyProvider is the slice of the AI client assistant replies need
type ReplyProvider interface {
	AssistantReply(ctx context.Context, history []ai.ChatHistoryEntry, userMessage string) (string, error)
	Configured() bool
}

// ConsultationLookup resolves the consultation a reply would attach to
type ConsultationLookup interface {
	Get(id uint) (*models.Consultation, error)
}

// ChatService persists consultation messages and publishes insert events to
// the change-notification stream
type ChatService struct {
	db            *gorm.DB
	stream        notify.Stream
	provider      ReplyProvider
	consultations ConsultationLookup
	maxFetch      int
	enableAIReply bool
	log           *logger.Logger
}

// NewChatService creates a chat service
func NewChatService(db *gorm.DB, stream notify.Stream, provider ReplyProvider, consultations ConsultationLookup, maxFetch int, enableAIReply bool, log *logger.Logger) *ChatService {
	if maxFetch <= 0 {
		maxFetch = 200
	}
	return &ChatService{
		db:            db,
		stream:        stream,
		provider:      provider,
		consultations: consultations,
		maxFetch:      maxFetch,
		enableAIReply: enableAIReply,
		log:           log,
	}
}

// SendMessage inserts a single message row and publishes an insert event.
// There is no optimistic echo; receivers learn about the message from the
// stream only.
func (s *ChatService) SendMessage(ctx context.Context, consultationID, senderID uint, req *models.SendMessageRequest, isAI bool) (*models.ChatMessage, error) {
	if s.db == nil {
		return nil, errors.NewConfigurationError("Chat is unavailable: database is not configured")
	}

	msg := models.ChatMessage{
		ConsultationID: consultationID,
		SenderID:       senderID,
		Content:        req.Content,
		MessageType:    req.MessageType,
		IsAIGenerated:  isAI,
	}

	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	if err := s.stream.Publish(ctx, notify.Event{
		Kind:           notify.EventInsert,
		ConsultationID: consultationID,
		Message:        msg,
	}); err != nil {
		// The row exists; receivers catch up on next history fetch
		s.log.LogError(err, "Failed to publish insert event", "consultation_id", consultationID)
	}

	return &msg, nil
}

// History returns the transcript for a consultation ordered by creation time
func (s *ChatService) History(consultationID uint) ([]models.ChatMessage, error) {
	if s.db == nil {
		return nil, errors.NewConfigurationError("Chat is unavailable: database is not configured")
	}

	var messages []models.ChatMessage
	err := s.db.Where("consultation_id = ?", consultationID).
		Order("created_at asc").
		Limit(s.maxFetch).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GenerateAssistantReply produces and inserts an AI reply to the latest user
// message in a chat consultation. Returns nil without error when the feature
// is disabled, the provider is unconfigured, or the consultation is not a
// chat session. Video and phone threads keep human-only transcripts.
func (s *ChatService) GenerateAssistantReply(ctx context.Context, consultationID uint, userMessage string) (*models.ChatMessage, error) {
	if !s.enableAIReply || s.provider == nil || !s.provider.Configured() {
		return nil, nil
	}

	consultation, err := s.consultations.Get(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation.ConsultationType != models.ConsultationTypeChat {
		return nil, nil
	}

	history, err := s.History(consultationID)
	if err != nil {
		return nil, err
	}

	entries := make([]ai.ChatHistoryEntry, 0, len(history))
	for _, m := range history {
		entries = append(entries, ai.ChatHistoryEntry{
			Assistant: m.IsAIGenerated,
			Content:   m.Content,
		})
	}

	reply, err := s.provider.AssistantReply(ctx, entries, userMessage)
	if err != nil {
		s.log.LogError(err, "Assistant reply generation failed", "consultation_id", consultationID)
		return nil, err
	}

	return s.SendMessage(ctx, consultationID, 0, &models.SendMessageRequest{
		Content:     reply,
		MessageType: models.MessageTypeText,
	}, true)
}
