package models

import (
	"time"
)

// Consultation types
const (
	ConsultationTypeChat  = "chat"
	ConsultationTypeVideo = "video"
	ConsultationTypePhone = "phone"
)

// Consultation statuses
const (
	ConsultationStatusPending   = "pending"
	ConsultationStatusConfirmed = "confirmed"
	ConsultationStatusCompleted = "completed"
	ConsultationStatusCancelled = "cancelled"
)

// Consultation represents a booked session between a patient and a doctor
type Consultation struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	PatientID        uint       `gorm:"index" json:"patient_id"`
	DoctorID         *uint      `gorm:"index" json:"doctor_id,omitempty"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty" gorm:"type:text"`
	ConsultationType string     `json:"consultation_type" gorm:"default:chat"` // chat, video or phone
	Status           string     `json:"status" gorm:"default:pending"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateConsultationRequest is the request structure for booking a consultation
type CreateConsultationRequest struct {
	Title            string    `json:"title" binding:"required"`
	Description      string    `json:"description,omitempty"`
	ConsultationType string    `json:"consultation_type" binding:"required,oneof=chat video phone"`
	ScheduledAt      time.Time `json:"scheduled_at" binding:"required"`
	DoctorID         *uint     `json:"doctor_id,omitempty"`
}

// ValidConsultationType reports whether t is a supported consultation type
func ValidConsultationType(t string) bool {
	switch t {
	case ConsultationTypeChat, ConsultationTypeVideo, ConsultationTypePhone:
		return true
	}
	return false
}

// CanTransition reports whether a consultation status change is allowed
func CanTransition(from, to string) bool {
	switch from {
	case ConsultationStatusPending:
		return to == ConsultationStatusConfirmed || to == ConsultationStatusCancelled
	case ConsultationStatusConfirmed:
		return to == ConsultationStatusCompleted || to == ConsultationStatusCancelled
	}
	return false
}
