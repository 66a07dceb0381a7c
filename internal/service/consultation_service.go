package service

import (
	"errors"
	"time"

	"health-connect-demo/backend/internal/models"
	apperrors "health-connect-demo/backend/pkg/errors"

	"gorm.io/gorm"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
)

// ConsultationService handles consultation booking and lifecycle
type ConsultationService struct {
	db *gorm.DB
}

// NewConsultationService creates a consultation service
func NewConsultationService(db *gorm.DB) *ConsultationService {
	return &ConsultationService{db: db}
}

// Book creates a pending consultation for a patient
func (s *ConsultationService) Book(patientID uint, req *models.CreateConsultationRequest) (*models.Consultation, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Consultations are unavailable: database is not configured")
	}

	if !models.ValidConsultationType(req.ConsultationType) {
		return nil, apperrors.NewInvalidInputError("consultation_type must be chat, video or phone")
	}

	if !req.ScheduledAt.After(time.Now()) {
		return nil, apperrors.NewInvalidInputError("scheduled_at must be in the future")
	}

	consultation := models.Consultation{
		PatientID:        patientID,
		DoctorID:         req.DoctorID,
		Title:            req.Title,
		Description:      req.Description,
		ConsultationType: req.ConsultationType,
		Status:           models.ConsultationStatusPending,
		ScheduledAt:      &req.ScheduledAt,
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		return nil, err
	}

	return &consultation, nil
}

// Get fetches a single consultation
func (s *ConsultationService) Get(id uint) (*models.Consultation, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Consultations are unavailable: database is not configured")
	}

	var consultation models.Consultation
	result := s.db.First(&consultation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, result.Error
	}
	return &consultation, nil
}

// ListForUser returns consultations visible to a user. Patients see their own
// bookings; doctors see sessions assigned to them.
func (s *ConsultationService) ListForUser(userID uint, userType string) ([]models.Consultation, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Consultations are unavailable: database is not configured")
	}

	var consultations []models.Consultation

	query := s.db.Order("created_at desc")
	if userType == models.UserTypeDoctor {
		query = query.Where("doctor_id = ?", userID)
	} else {
		query = query.Where("patient_id = ?", userID)
	}

	if err := query.Find(&consultations).Error; err != nil {
		return nil, err
	}
	return consultations, nil
}

// UpdateStatus moves a consultation through its lifecycle. Only doctors may
// confirm or complete; either party may cancel.
func (s *ConsultationService) UpdateStatus(id, userID uint, userType, newStatus string) (*models.Consultation, error) {
	consultation, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	isParticipant := consultation.PatientID == userID ||
		(consultation.DoctorID != nil && *consultation.DoctorID == userID)
	if !isParticipant {
		return nil, apperrors.NewForbiddenError("NOT_PARTICIPANT", "You are not part of this consultation")
	}

	if newStatus != models.ConsultationStatusCancelled && userType != models.UserTypeDoctor {
		return nil, apperrors.NewForbiddenError("INSUFFICIENT_ROLE", "Only doctors can confirm or complete consultations")
	}

	if !models.CanTransition(consultation.Status, newStatus) {
		return nil, apperrors.NewInvalidInputError("cannot change status from " + consultation.Status + " to " + newStatus)
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.ConsultationStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := s.db.Model(consultation).Updates(updates).Error; err != nil {
		return nil, err
	}

	return consultation, nil
}

// IsParticipant reports whether a user belongs to a consultation
func (s *ConsultationService) IsParticipant(consultationID, userID uint) (bool, error) {
	consultation, err := s.Get(consultationID)
	if err != nil {
		return false, err
	}
	if consultation.PatientID == userID {
		return true, nil
	}
	return consultation.DoctorID != nil && *consultation.DoctorID == userID, nil
}
