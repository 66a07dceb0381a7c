package api

import (
	"io"
	"net/http"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/pkg/config"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// VoiceHandler handles transcription and speech synthesis requests
type VoiceHandler struct {
	client    *ai.Client
	logger    *logger.Logger
	maxUpload int64
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(client *ai.Client, cfg *config.Config, logger *logger.Logger) *VoiceHandler {
	return &VoiceHandler{
		client:    client,
		logger:    logger,
		maxUpload: cfg.Features.MaxAudioUploadSize,
	}
}

// Transcribe converts an uploaded audio file to text
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An audio file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Audio file is too large"})
		return
	}

	audioData, err := io.ReadAll(io.LimitReader(file, h.maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read audio file"})
		return
	}

	text, err := h.client.SpeechToText(c.Request.Context(), audioData, header.Filename)
	if err != nil {
		h.logger.LogError(err, "Transcription failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to transcribe audio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

type synthesizeRequest struct {
	Text      string `json:"text" binding:"required"`
	VoiceType string `json:"voice_type,omitempty"`
}

// Synthesize converts text to speech and streams the audio back
func (h *VoiceHandler) Synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	audio, err := h.client.TextToSpeech(c.Request.Context(), req.Text, req.VoiceType)
	if err != nil {
		h.logger.LogError(err, "Speech synthesis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to synthesize speech"})
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
