package ai

import "strings"

// SymptomQuery is the input to a symptom analysis request
type SymptomQuery struct {
	Symptoms       []string               `json:"symptoms"`
	Description    string                 `json:"description"`
	PatientHistory map[string]interface{} `json:"patientHistory,omitempty"`
}

// HasInput reports whether the query carries anything to analyze.
// Whitespace-only entries do not count.
func (q SymptomQuery) HasInput() bool {
	for _, s := range q.Symptoms {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return strings.TrimSpace(q.Description) != ""
}

// Condition is one possible condition suggested by the analysis
type Condition struct {
	Condition   string `json:"condition"`
	Probability string `json:"probability"`
	Description string `json:"description"`
}

// RemedySuggestion is one home remedy suggested by the analysis
type RemedySuggestion struct {
	Remedy       string `json:"remedy"`
	Instructions string `json:"instructions"`
}

// SymptomAnalysis is the structured result contract returned by the provider.
// Field names follow the JSON keys the model is instructed to produce.
type SymptomAnalysis struct {
	PossibleConditions []Condition        `json:"possibleConditions"`
	SeverityLevel      string             `json:"severityLevel"`
	RecommendedActions []string           `json:"recommendedActions"`
	RedFlags           []string           `json:"redFlags"`
	HomeRemedies       []RemedySuggestion `json:"homeRemedies"`
	WhenToSeekHelp     string             `json:"whenToSeekHelp"`
	Disclaimer         string             `json:"disclaimer"`
}

// AdvisorQuery is the input to a health advisor request
type AdvisorQuery struct {
	Symptoms    string `json:"symptoms"`
	UserHistory string `json:"userHistory,omitempty"`
	UserID      uint   `json:"userId,omitempty"`
}
