package service

import (
	"context"
	"time"

	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/resilience"

	"gorm.io/gorm"
)

// AdviceProvider is the slice of the AI client the advisor needs
type AdviceProvider interface {
	GenerateAdvice(ctx context.Context, symptoms, userHistory string) (string, error)
	Configured() bool
}

// AdvisorService produces free-text health advice and logs a completed
// consultation row for known users
type AdvisorService struct {
	provider AdviceProvider
	db       *gorm.DB
	breaker  *resilience.CircuitBreaker
	log      *logger.Logger
}

// NewAdvisorService creates an advisor service. db may be nil.
func NewAdvisorService(provider AdviceProvider, db *gorm.DB, log *logger.Logger) *AdvisorService {
	return &AdvisorService{
		provider: provider,
		db:       db,
		breaker:  resilience.NewCircuitBreaker(resilience.DefaultConfig("health-advisor"), log),
		log:      log,
	}
}

// Advise returns advice text for the described symptoms. When userID is set
// and a profile exists, the user's medical history supplements the prompt and
// a consultation row records the interaction.
func (s *AdvisorService) Advise(ctx context.Context, symptoms, userHistory string, userID uint) (string, error) {
	if symptoms == "" {
		return "", errors.NewInvalidInputError("Please describe your symptoms")
	}

	if !s.provider.Configured() {
		return "", errors.NewConfigurationError("The health advisor is unavailable: AI provider is not configured")
	}

	history := userHistory
	if userID > 0 && s.db != nil {
		var user models.User
		if err := s.db.First(&user, userID).Error; err == nil && user.MedicalHistory != "" {
			if history != "" {
				history += "\n"
			}
			history += user.MedicalHistory
		}
	}

	var advice string
	err := s.breaker.Execute(func() error {
		var callErr error
		advice, callErr = s.provider.GenerateAdvice(ctx, symptoms, history)
		return callErr
	})
	if err != nil {
		return "", errors.NewUpstreamError("Could not generate advice: " + err.Error())
	}

	if userID > 0 {
		s.logConsultation(userID, symptoms)
	}

	return advice, nil
}

// logConsultation records the advisor interaction as a completed consultation.
// Best effort, same policy as symptom reports.
func (s *AdvisorService) logConsultation(userID uint, symptoms string) {
	if s.db == nil {
		return
	}

	now := time.Now()
	consultation := models.Consultation{
		PatientID:        userID,
		Title:            "AI Health Consultation",
		Description:      symptoms,
		ConsultationType: models.ConsultationTypeChat,
		Status:           models.ConsultationStatusCompleted,
		CompletedAt:      &now,
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		s.log.LogError(err, "Failed to log advisor consultation", "user_id", userID)
	}
}
