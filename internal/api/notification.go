package api

import (
	"net/http"

	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification dispatch requests
type NotificationHandler struct {
	service *service.NotificationService
	logger  *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// Send dispatches a notification to a profile. Missing recipients reply with
// 500 to keep the original endpoint contract.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req service.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	result, err := h.service.Send(&req)
	if err != nil {
		h.logger.LogError(err, "Notification dispatch failed", "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, result)
}
