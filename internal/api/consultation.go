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

// ConsultationHandler handles consultation booking and lifecycle requests
type ConsultationHandler struct {
	service *service.ConsultationService
	logger  *logger.Logger
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(service *service.ConsultationService, logger *logger.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		service: service,
		logger:  logger,
	}
}

// Book creates a pending consultation
func (h *ConsultationHandler) Book(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req models.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	consultation, err := h.service.Book(userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, consultation)
}

// List returns the caller's consultations
func (h *ConsultationHandler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	userType := c.GetString("userType")

	consultations, err := h.service.ListForUser(userID, userType)
	if err != nil {
		h.logger.Error("Error listing consultations", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list consultations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

// Get returns one consultation the caller participates in
func (h *ConsultationHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation id"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	ok, err := h.service.IsParticipant(id, userID)
	if err != nil {
		if err == service.ErrConsultationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
			return
		}
		c.Error(err)
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this consultation"})
		return
	}

	consultation, err := h.service.Get(id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, consultation)
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// UpdateStatus moves a consultation through its lifecycle
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be confirmed, completed or cancelled"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	userType := c.GetString("userType")

	consultation, err := h.service.UpdateStatus(id, userID, userType, req.Status)
	if err != nil {
		if err == service.ErrConsultationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, consultation)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
