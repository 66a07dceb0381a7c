package api

import (
	"net/http"
	"strconv"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// SymptomHandler handles symptom analysis requests
type SymptomHandler struct {
	service *service.SymptomService
	logger  *logger.Logger
}

// NewSymptomHandler creates a new symptom handler
func NewSymptomHandler(service *service.SymptomService, logger *logger.Logger) *SymptomHandler {
	return &SymptomHandler{
		service: service,
		logger:  logger,
	}
}

// Analyze runs a symptom analysis. Anonymous callers get the analysis only;
// authenticated callers also get a report recorded.
func (h *SymptomHandler) Analyze(c *gin.Context) {
	var query ai.SymptomQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": "Invalid request format",
			},
		})
		return
	}

	userID := middleware.UserIDFromContext(c)

	analysis, err := h.service.Analyze(c.Request.Context(), query, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// Reports lists the caller's recorded symptom reports
func (h *SymptomHandler) Reports(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	reports, err := h.service.ListReports(userID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
