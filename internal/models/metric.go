package models

import (
	"time"
)

// HealthMetric represents a single self-recorded measurement
type HealthMetric struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	MetricType string    `gorm:"index" json:"metric_type"` // e.g. blood_pressure, weight, heart_rate
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`
	RecordedAt time.Time `gorm:"index" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordMetricRequest is the request structure for recording a measurement
type RecordMetricRequest struct {
	MetricType string     `json:"metric_type" binding:"required"`
	Value      float64    `json:"value" binding:"required"`
	Unit       string     `json:"unit,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// MetricSummary is the latest value recorded for one metric type
type MetricSummary struct {
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Count      int64     `json:"count"`
}
