package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"health-connect-demo/backend/internal/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingAnalyzer struct {
	calls   atomic.Int32
	release chan struct{}
	result  *ai.SymptomAnalysis
	err     error
}

func (a *blockingAnalyzer) Analyze(ctx context.Context, query ai.SymptomQuery) (*ai.SymptomAnalysis, error) {
	a.calls.Add(1)
	if a.release != nil {
		<-a.release
	}
	return a.result, a.err
}

func successResult() *ai.SymptomAnalysis {
	return &ai.SymptomAnalysis{
		PossibleConditions: []ai.Condition{{Condition: "Common cold", Probability: "high"}},
		SeverityLevel:      "low",
		Disclaimer:         "Not a diagnosis.",
	}
}

func TestToggleSymptomDeduplicates(t *testing.T) {
	checker := NewSymptomChecker(&blockingAnalyzer{})

	checker.ToggleSymptom("Fever")
	checker.ToggleSymptom("Cough")
	checker.ToggleSymptom("Fever")

	assert.Equal(t, []string{"Cough"}, checker.Symptoms())

	checker.ToggleSymptom("Fever")
	assert.Equal(t, []string{"Cough", "Fever"}, checker.Symptoms())
}

func TestAnalyzeRequiresInput(t *testing.T) {
	analyzer := &blockingAnalyzer{result: successResult()}
	checker := NewSymptomChecker(analyzer)

	err := checker.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrNothingToAnalyze)
	assert.Equal(t, int32(0), analyzer.calls.Load())
	assert.Equal(t, CheckerIdle, checker.State())
}

func TestConcurrentAnalyzeSuppressed(t *testing.T) {
	analyzer := &blockingAnalyzer{
		release: make(chan struct{}),
		result:  successResult(),
	}
	checker := NewSymptomChecker(analyzer)
	checker.ToggleSymptom("Fever")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Analyze(context.Background())
	}()

	require.Eventually(t, func() bool {
		return checker.State() == CheckerSubmitting
	}, time.Second, time.Millisecond)

	err := checker.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(analyzer.release)
	wg.Wait()

	assert.Equal(t, int32(1), analyzer.calls.Load(), "only one backend request may be made")
	assert.Equal(t, CheckerSuccess, checker.State())
}

func TestSuccessReplacesPriorResult(t *testing.T) {
	first := successResult()
	analyzer := &blockingAnalyzer{result: first}
	checker := NewSymptomChecker(analyzer)
	checker.SetDescription("headache")

	require.NoError(t, checker.Analyze(context.Background()))
	require.Same(t, first, checker.Result())

	second := &ai.SymptomAnalysis{SeverityLevel: "moderate", Disclaimer: "Not a diagnosis."}
	analyzer.result = second

	require.NoError(t, checker.Analyze(context.Background()))
	assert.Same(t, second, checker.Result())
}

func TestFailurePermitsResubmission(t *testing.T) {
	analyzer := &blockingAnalyzer{err: errors.New("upstream unavailable")}
	checker := NewSymptomChecker(analyzer)
	checker.ToggleSymptom("Cough")

	err := checker.Analyze(context.Background())
	require.Error(t, err)
	assert.Equal(t, CheckerFailed, checker.State())
	assert.Error(t, checker.Failure())
	assert.Nil(t, checker.Result())

	analyzer.err = nil
	analyzer.result = successResult()

	require.NoError(t, checker.Analyze(context.Background()))
	assert.Equal(t, CheckerSuccess, checker.State())
	assert.Nil(t, checker.Failure())
}
