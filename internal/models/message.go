package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeVoice = "voice"
)

// ChatMessage represents a single message in a consultation transcript.
// IDs are UUIDs minted at insert time so duplicate delivery over the
// change-notification stream can be detected by receivers.
type ChatMessage struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ConsultationID uint      `gorm:"index" json:"consultation_id"`
	SenderID       uint      `gorm:"index" json:"sender_id"`
	Content        string    `json:"content" gorm:"type:text"`
	MessageType    string    `json:"message_type" gorm:"default:text"` // text or voice
	IsAIGenerated  bool      `json:"is_ai_generated" gorm:"default:false"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// SendMessageRequest is the request structure for inserting a chat message
type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type,omitempty"`
}

// BeforeCreate is a GORM hook that mints the message id
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.MessageType == "" {
		m.MessageType = MessageTypeText
	}
	return nil
}
