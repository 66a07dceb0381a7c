package models

import (
	"time"
)

// HomeRemedy represents a catalog entry of a traditional home treatment
type HomeRemedy struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description" gorm:"type:text"`
	Ingredients         string    `json:"ingredients" gorm:"type:text"`  // newline-separated
	Instructions        string    `json:"instructions" gorm:"type:text"` // newline-separated steps
	Conditions          string    `json:"conditions" gorm:"type:text"`   // comma-joined condition tags
	SafetyNotes         string    `json:"safety_notes,omitempty" gorm:"type:text"`
	DifficultyLevel     string    `json:"difficulty_level" gorm:"default:easy"` // easy, medium, hard
	PreparationTime     string    `json:"preparation_time,omitempty"`
	EffectivenessRating float64   `json:"effectiveness_rating"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
