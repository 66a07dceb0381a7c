package service

import (
	"errors"
	"fmt"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/pkg/cache"
	apperrors "health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeConsultation = "consultation"
	NotificationTypeReminder     = "reminder"
	NotificationTypeGeneral      = "general"
)

// NotificationRequest describes an outbound notification
type NotificationRequest struct {
	UserID  uint   `json:"userId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type,omitempty"`
}

// NotificationResult is the delivery outcome
type NotificationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
}

// NotificationService looks up the recipient profile and dispatches the
// notification. Delivery here is a structured log entry; the result shape is
// the contract a real push or email channel would fill.
type NotificationService struct {
	db           *gorm.DB
	profileCache *cache.Cache
	log          *logger.Logger
}

// NewNotificationService creates a notification service
func NewNotificationService(db *gorm.DB, profileCache *cache.Cache, log *logger.Logger) *NotificationService {
	return &NotificationService{
		db:           db,
		profileCache: profileCache,
		log:          log,
	}
}

// Send resolves the recipient and dispatches the notification
func (s *NotificationService) Send(req *NotificationRequest) (*NotificationResult, error) {
	user, err := s.lookupProfile(req.UserID)
	if err != nil {
		return nil, err
	}

	notifType := req.Type
	if notifType == "" {
		notifType = NotificationTypeGeneral
	}

	s.log.Info("Notification dispatched",
		"recipient_id", user.ID,
		"recipient", user.FullName,
		"title", req.Title,
		"type", notifType,
	)

	return &NotificationResult{
		Success:   true,
		Message:   fmt.Sprintf("Notification %q sent", req.Title),
		Recipient: user.FullName,
	}, nil
}

// lookupProfile fetches the recipient, consulting the cache first
func (s *NotificationService) lookupProfile(userID uint) (*models.User, error) {
	key := fmt.Sprintf("profile:%d", userID)

	if s.profileCache != nil {
		if cached, ok := s.profileCache.Get(key); ok {
			if user, ok := cached.(*models.User); ok {
				return user, nil
			}
		}
	}

	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Notifications are unavailable: database is not configured")
	}

	var user models.User
	result := s.db.First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Recipient profile not found")
		}
		return nil, result.Error
	}

	if s.profileCache != nil {
		s.profileCache.Set(key, &user)
	}

	return &user, nil
}
