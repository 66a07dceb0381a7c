package service

import (
	"context"
	"errors"
	"testing"

	"health-connect-demo/backend/internal/ai"
	apperrors "health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response   string
	err        error
	configured bool
	calls      int
}

func (f *fakeProvider) AnalyzeSymptoms(ctx context.Context, query ai.SymptomQuery) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeProvider) Configured() bool {
	return f.configured
}

const validAnalysis = `{
  "possibleConditions": [{"condition": "Tension headache", "probability": "high", "description": "Stress-related headache"}],
  "severityLevel": "low",
  "recommendedActions": ["Rest in a quiet room"],
  "redFlags": [],
  "homeRemedies": [],
  "whenToSeekHelp": "If pain becomes severe",
  "disclaimer": "Not a diagnosis."
}`

func TestAnalyzeEmptyInputSkipsProvider(t *testing.T) {
	provider := &fakeProvider{configured: true, response: validAnalysis}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	_, err := svc.Analyze(context.Background(), ai.SymptomQuery{}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Equal(t, 0, provider.calls, "provider must not be called for empty input")
}

func TestAnalyzeBlankSymptomsOnlySkipsProvider(t *testing.T) {
	provider := &fakeProvider{configured: true, response: validAnalysis}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	_, err := svc.Analyze(context.Background(), ai.SymptomQuery{Symptoms: []string{""}}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Equal(t, 0, provider.calls)
}

func TestAnalyzeUnconfiguredProvider(t *testing.T) {
	provider := &fakeProvider{configured: false}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	_, err := svc.Analyze(context.Background(), ai.SymptomQuery{Symptoms: []string{"Fever"}}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfiguration))
	assert.Equal(t, 0, provider.calls)
}

func TestAnalyzeProviderFailure(t *testing.T) {
	provider := &fakeProvider{configured: true, err: errors.New("connection refused")}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	_, err := svc.Analyze(context.Background(), ai.SymptomQuery{Symptoms: []string{"Fever"}}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamError))
	assert.Contains(t, apperrors.GetErrorMessage(err), "connection refused")
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	provider := &fakeProvider{configured: true, response: "I cannot produce JSON today"}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	_, err := svc.Analyze(context.Background(), ai.SymptomQuery{Symptoms: []string{"Fever"}}, 42)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedResponse))
}

func TestAnalyzeSuccess(t *testing.T) {
	provider := &fakeProvider{configured: true, response: validAnalysis}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	analysis, err := svc.Analyze(context.Background(), ai.SymptomQuery{
		Symptoms: []string{"Fever", "Cough"},
	}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.PossibleConditions)
	assert.NotEmpty(t, analysis.Disclaimer)
	assert.Equal(t, "low", analysis.SeverityLevel)
	assert.Equal(t, 1, provider.calls)
}

func TestAnalyzeFencedProviderOutput(t *testing.T) {
	provider := &fakeProvider{configured: true, response: "```json\n" + validAnalysis + "\n```"}
	svc := NewSymptomService(provider, nil, logger.GetGlobal())

	analysis, err := svc.Analyze(context.Background(), ai.SymptomQuery{Description: "mild headache"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Tension headache", analysis.PossibleConditions[0].Condition)
}
