package api

import (
	"net/http"
	"strconv"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// MetricHandler handles health tracking requests
type MetricHandler struct {
	service *service.MetricService
	logger  *logger.Logger
}

// NewMetricHandler creates a new metric handler
func NewMetricHandler(service *service.MetricService, logger *logger.Logger) *MetricHandler {
	return &MetricHandler{
		service: service,
		logger:  logger,
	}
}

// Record stores a measurement for the caller
func (h *MetricHandler) Record(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req models.RecordMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	metric, err := h.service.Record(userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, metric)
}

// List returns the caller's measurements
func (h *MetricHandler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	metricType := c.Query("type")

	metrics, err := h.service.List(userID, metricType, limit)
	if err != nil {
		h.logger.Error("Error listing metrics", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// Summary returns the latest value per metric type
func (h *MetricHandler) Summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	summaries, err := h.service.Summary(userID)
	if err != nil {
		h.logger.Error("Error building metric summary", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summaries})
}
