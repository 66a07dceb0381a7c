package service

import (
	"context"
	"encoding/json"
	"strings"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/resilience"

	"gorm.io/gorm"
)

// AnalysisProvider is the slice of the AI client the symptom service needs
type AnalysisProvider interface {
	AnalyzeSymptoms(ctx context.Context, query ai.SymptomQuery) (string, error)
	Configured() bool
}

// SymptomService runs symptom analyses against the LLM provider and records
// reports for authenticated users
type SymptomService struct {
	provider AnalysisProvider
	db       *gorm.DB
	breaker  *resilience.CircuitBreaker
	log      *logger.Logger
}

// NewSymptomService creates a symptom analysis service. db may be nil when
// persistence is not configured; analyses still run, reports are skipped.
func NewSymptomService(provider AnalysisProvider, db *gorm.DB, log *logger.Logger) *SymptomService {
	return &SymptomService{
		provider: provider,
		db:       db,
		breaker:  resilience.NewCircuitBreaker(resilience.DefaultConfig("symptom-analysis"), log),
		log:      log,
	}
}

// Analyze validates the query, calls the provider and parses the structured
// result. userID > 0 triggers best-effort report persistence. There is no
// internal retry; the caller owns retry policy.
func (s *SymptomService) Analyze(ctx context.Context, query ai.SymptomQuery, userID uint) (*ai.SymptomAnalysis, error) {
	if !query.HasInput() {
		return nil, errors.NewInvalidInputError("Please provide at least one symptom or a description of how you feel")
	}

	if !s.provider.Configured() {
		return nil, errors.NewConfigurationError("Symptom analysis is unavailable: AI provider is not configured")
	}

	var raw string
	err := s.breaker.Execute(func() error {
		var callErr error
		raw, callErr = s.provider.AnalyzeSymptoms(ctx, query)
		return callErr
	})
	if err != nil {
		return nil, errors.NewUpstreamError("The analysis service is currently unavailable: " + err.Error())
	}

	analysis, err := ai.ParseAnalysis(raw)
	if err != nil {
		s.log.Warn("Provider returned unparseable analysis", "raw_length", len(raw))
		return nil, errors.NewMalformedResponseError("The analysis could not be processed. Please try again.")
	}

	if userID > 0 {
		s.saveReport(query, analysis, userID)
	}

	return analysis, nil
}

// saveReport persists a SymptomReport. Failures are logged and swallowed;
// the analysis result has already been produced and is returned regardless.
func (s *SymptomService) saveReport(query ai.SymptomQuery, analysis *ai.SymptomAnalysis, userID uint) {
	if s.db == nil {
		return
	}

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		s.log.LogError(err, "Failed to encode analysis for report", "user_id", userID)
		return
	}

	report := models.SymptomReport{
		UserID:             userID,
		Symptoms:           strings.Join(query.Symptoms, ", "),
		SymptomDescription: query.Description,
		AIAnalysis:         string(analysisJSON),
		SeverityScore:      models.SeverityScore(analysis.SeverityLevel),
	}

	if err := s.db.Create(&report).Error; err != nil {
		s.log.LogError(err, "Failed to persist symptom report", "user_id", userID)
	}
}

// ListReports returns the reports recorded for a user, newest first
func (s *SymptomService) ListReports(userID uint, limit int) ([]models.SymptomReport, error) {
	if s.db == nil {
		return nil, errors.NewConfigurationError("Report history is unavailable: database is not configured")
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var reports []models.SymptomReport
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
