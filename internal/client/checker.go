package client

import (
	"context"
	"errors"
	"sync"

	"health-connect-demo/backend/internal/ai"
)

// CheckerState is the lifecycle of one symptom submission
type CheckerState int

const (
	// CheckerIdle means no submission has run yet or the last one was cleared
	CheckerIdle CheckerState = iota
	// CheckerSubmitting means a request is in flight
	CheckerSubmitting
	// CheckerSuccess means the latest submission produced an analysis
	CheckerSuccess
	// CheckerFailed means the latest submission failed
	CheckerFailed
)

var (
	// ErrNothingToAnalyze is returned when neither symptoms nor description are set
	ErrNothingToAnalyze = errors.New("select a symptom or describe how you feel first")
	// ErrSubmissionInFlight is returned when an analyze call is suppressed
	// because one is already running
	ErrSubmissionInFlight = errors.New("analysis already in progress")
)

// Analyzer is the backend call the checker makes
type Analyzer interface {
	Analyze(ctx context.Context, query ai.SymptomQuery) (*ai.SymptomAnalysis, error)
}

// SymptomChecker drives the symptom-checker screen: symptom selection,
// submission guard and latest-result tracking. Safe for concurrent use.
type SymptomChecker struct {
	mu          sync.Mutex
	state       CheckerState
	symptoms    []string
	description string
	result      *ai.SymptomAnalysis
	failure     error
	analyzer    Analyzer
}

// NewSymptomChecker creates a checker bound to an analyzer
func NewSymptomChecker(analyzer Analyzer) *SymptomChecker {
	return &SymptomChecker{
		state:    CheckerIdle,
		analyzer: analyzer,
	}
}

// ToggleSymptom adds the symptom if absent, removes it if present.
// Selection is deduplicated by name.
func (c *SymptomChecker) ToggleSymptom(name string) {
	if name == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.symptoms {
		if s == name {
			c.symptoms = append(c.symptoms[:i], c.symptoms[i+1:]...)
			return
		}
	}
	c.symptoms = append(c.symptoms, name)
}

// SetDescription replaces the free-text description
func (c *SymptomChecker) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = text
}

// Symptoms returns the current selection
func (c *SymptomChecker) Symptoms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.symptoms))
	copy(out, c.symptoms)
	return out
}

// State returns the current lifecycle state
func (c *SymptomChecker) State() CheckerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the latest analysis, nil unless the state is CheckerSuccess
func (c *SymptomChecker) Result() *ai.SymptomAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Failure returns the latest failure, nil unless the state is CheckerFailed
func (c *SymptomChecker) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Analyze submits the current selection. A call with nothing selected, or
// while another submission is in flight, is suppressed without touching the
// backend. Success replaces any prior result; failure keeps the inputs so the
// user can resubmit. There is no automatic retry.
func (c *SymptomChecker) Analyze(ctx context.Context) error {
	c.mu.Lock()
	if c.state == CheckerSubmitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}

	query := ai.SymptomQuery{
		Symptoms:    append([]string(nil), c.symptoms...),
		Description: c.description,
	}
	if !query.HasInput() {
		c.mu.Unlock()
		return ErrNothingToAnalyze
	}

	c.state = CheckerSubmitting
	c.mu.Unlock()

	result, err := c.analyzer.Analyze(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = CheckerFailed
		c.failure = err
		return err
	}

	c.state = CheckerSuccess
	c.result = result
	c.failure = nil
	return nil
}

// Reset clears the result and failure, returning to idle. Selection and
// description are kept.
func (c *SymptomChecker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckerSubmitting {
		return
	}
	c.state = CheckerIdle
	c.result = nil
	c.failure = nil
}
