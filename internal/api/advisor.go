package api

import (
	"net/http"

	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AdvisorHandler handles health advisor requests
type AdvisorHandler struct {
	service *service.AdvisorService
	logger  *logger.Logger
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(service *service.AdvisorService, logger *logger.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		service: service,
		logger:  logger,
	}
}

type advisorRequest struct {
	Symptoms    string `json:"symptoms" binding:"required"`
	UserHistory string `json:"userHistory,omitempty"`
	UserID      uint   `json:"userId,omitempty"`
}

// Advise returns free-text advice for the described symptoms. Failures reply
// with 500 to keep the original endpoint contract.
func (h *AdvisorHandler) Advise(c *gin.Context) {
	var req advisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate advice"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	if userID == 0 {
		userID = req.UserID
	}

	advice, err := h.service.Advise(c.Request.Context(), req.Symptoms, req.UserHistory, userID)
	if err != nil {
		h.logger.LogError(err, "Advisor request failed",
			"code", errors.GetErrorCode(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate advice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
