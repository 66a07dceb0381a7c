package models

import (
	"strings"
	"time"
)

// SymptomReport is the persisted record of a symptom analysis performed for an
// authenticated user. Persistence is best effort; a failed insert never fails
// the analysis request.
type SymptomReport struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"index" json:"user_id"`
	Symptoms           string    `json:"symptoms" gorm:"type:text"` // comma-joined symptom names
	SymptomDescription string    `json:"symptom_description" gorm:"type:text"`
	AIAnalysis         string    `json:"ai_analysis" gorm:"type:text"` // raw analysis JSON
	SeverityScore      int       `json:"severity_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// SeverityScore maps an analysis severity level to a numeric score.
// Unknown levels score the same as low severity.
func SeverityScore(severityLevel string) int {
	switch strings.ToLower(severityLevel) {
	case "emergency":
		return 10
	case "high":
		return 8
	case "moderate":
		return 5
	default:
		return 3
	}
}
