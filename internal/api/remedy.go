package api

import (
	"net/http"

	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RemedyHandler serves the home remedy catalog
type RemedyHandler struct {
	service *service.RemedyService
	logger  *logger.Logger
}

// NewRemedyHandler creates a new remedy handler
func NewRemedyHandler(service *service.RemedyService, logger *logger.Logger) *RemedyHandler {
	return &RemedyHandler{
		service: service,
		logger:  logger,
	}
}

// Search lists remedies matching the query parameters
func (h *RemedyHandler) Search(c *gin.Context) {
	term := c.Query("q")
	condition := c.Query("condition")

	remedies, err := h.service.Search(term, condition)
	if err != nil {
		h.logger.Error("Error searching remedies", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search remedies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"remedies": remedies})
}

// Get returns one remedy
func (h *RemedyHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid remedy id"})
		return
	}

	remedy, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Remedy not found"})
		return
	}

	c.JSON(http.StatusOK, remedy)
}
