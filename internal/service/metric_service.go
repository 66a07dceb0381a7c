package service

import (
	"time"

	"health-connect-demo/backend/internal/models"
	apperrors "health-connect-demo/backend/pkg/errors"

	"gorm.io/gorm"
)

// MetricService records and summarizes self-reported health measurements
type MetricService struct {
	db *gorm.DB
}

// NewMetricService creates a metric service
func NewMetricService(db *gorm.DB) *MetricService {
	return &MetricService{db: db}
}

// Record stores a measurement for a user
func (s *MetricService) Record(userID uint, req *models.RecordMetricRequest) (*models.HealthMetric, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Health tracking is unavailable: database is not configured")
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	if recordedAt.After(time.Now()) {
		return nil, apperrors.NewInvalidInputError("recorded_at cannot be in the future")
	}

	metric := models.HealthMetric{
		UserID:     userID,
		MetricType: req.MetricType,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	}

	if err := s.db.Create(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// List returns measurements for a user, optionally filtered by type
func (s *MetricService) List(userID uint, metricType string, limit int) ([]models.HealthMetric, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Health tracking is unavailable: database is not configured")
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := s.db.Where("user_id = ?", userID).Order("recorded_at desc").Limit(limit)
	if metricType != "" {
		query = query.Where("metric_type = ?", metricType)
	}

	var metrics []models.HealthMetric
	if err := query.Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// Summary returns the latest value per metric type with counts
func (s *MetricService) Summary(userID uint) ([]models.MetricSummary, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("Health tracking is unavailable: database is not configured")
	}

	var metrics []models.HealthMetric
	err := s.db.Where("user_id = ?", userID).
		Order("recorded_at desc").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*models.MetricSummary)
	order := make([]string, 0)
	for _, m := range metrics {
		if summary, seen := latest[m.MetricType]; seen {
			summary.Count++
			continue
		}
		latest[m.MetricType] = &models.MetricSummary{
			MetricType: m.MetricType,
			Value:      m.Value,
			Unit:       m.Unit,
			RecordedAt: m.RecordedAt,
			Count:      1,
		}
		order = append(order, m.MetricType)
	}

	summaries := make([]models.MetricSummary, 0, len(order))
	for _, t := range order {
		summaries = append(summaries, *latest[t])
	}
	return summaries, nil
}
