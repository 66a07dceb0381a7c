package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysisJSON = `{
  "possibleConditions": [
    {"condition": "Common cold", "probability": "high", "description": "Viral upper respiratory infection"},
    {"condition": "Influenza", "probability": "medium", "description": "Seasonal flu"}
  ],
  "severityLevel": "moderate",
  "recommendedActions": ["Rest", "Stay hydrated"],
  "redFlags": ["Difficulty breathing"],
  "homeRemedies": [{"remedy": "Honey and lemon tea", "instructions": "Mix in warm water, drink twice daily"}],
  "whenToSeekHelp": "If symptoms persist beyond 7 days",
  "disclaimer": "This is not a medical diagnosis."
}`

func TestParseAnalysisDirectJSON(t *testing.T) {
	analysis, err := ParseAnalysis(sampleAnalysisJSON)
	require.NoError(t, err)
	assert.Len(t, analysis.PossibleConditions, 2)
	assert.Equal(t, "Common cold", analysis.PossibleConditions[0].Condition)
	assert.Equal(t, "moderate", analysis.SeverityLevel)
	assert.NotEmpty(t, analysis.Disclaimer)
}

func TestParseAnalysisFencedJSONBlock(t *testing.T) {
	raw := "Here is the analysis:\n```json\n" + sampleAnalysisJSON + "\n```\nLet me know if you need more."
	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "moderate", analysis.SeverityLevel)
	assert.Len(t, analysis.HomeRemedies, 1)
}

func TestParseAnalysisBareFence(t *testing.T) {
	raw := "```\n" + sampleAnalysisJSON + "\n```"
	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "Influenza", analysis.PossibleConditions[1].Condition)
}

func TestParseAnalysisBraceSubstring(t *testing.T) {
	raw := "Sure! The result is " + sampleAnalysisJSON + " and that is all."
	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rest", "Stay hydrated"}, analysis.RecommendedActions)
}

func TestParseAnalysisNoJSON(t *testing.T) {
	_, err := ParseAnalysis("I'm sorry, I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoAnalysis)
}

func TestParseAnalysisEmpty(t *testing.T) {
	_, err := ParseAnalysis("")
	assert.ErrorIs(t, err, ErrNoAnalysis)
}

func TestAnalysisRoundTrip(t *testing.T) {
	original, err := ParseAnalysis(sampleAnalysisJSON)
	require.NoError(t, err)

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded SymptomAnalysis
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, *original, decoded)
}

func TestSymptomQueryHasInput(t *testing.T) {
	assert.False(t, SymptomQuery{}.HasInput())
	assert.False(t, SymptomQuery{Symptoms: []string{""}}.HasInput())
	assert.False(t, SymptomQuery{Symptoms: []string{"  "}, Description: " "}.HasInput())
	assert.True(t, SymptomQuery{Symptoms: []string{"Fever"}}.HasInput())
	assert.True(t, SymptomQuery{Description: "headache for two days"}.HasInput())
}
