package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	aiclient "health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/config"
	"health-connect-demo/backend/pkg/jwt"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response   string
	err        error
	configured bool
	calls      atomic.Int32
}

func (p *stubProvider) AnalyzeSymptoms(ctx context.Context, query aiclient.SymptomQuery) (string, error) {
	p.calls.Add(1)
	return p.response, p.err
}

func (p *stubProvider) Configured() bool { return p.configured }

const stubAnalysis = `{
	"possibleConditions": [{"condition": "Common cold", "probability": "high", "description": "Viral infection"}],
	"severityLevel": "moderate",
	"recommendedActions": ["Rest and hydrate"],
	"redFlags": [],
	"homeRemedies": [],
	"whenToSeekHelp": "If symptoms persist beyond a week",
	"disclaimer": "This is not a medical diagnosis."
}`

func newTestRouter(t *testing.T, provider *stubProvider) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
	stream := notify.NewMemoryStream()
	client := aiclient.NewClient(config.Get())

	consultations := service.NewConsultationService(nil)

	deps := &Dependencies{
		Logger:        log,
		Config:        config.Get(),
		Stream:        stream,
		AIClient:      client,
		Users:         service.NewUserService(nil),
		Symptoms:      service.NewSymptomService(provider, nil, log),
		Advisor:       service.NewAdvisorService(client, nil, log),
		Consultations: consultations,
		Chats:         service.NewChatService(nil, stream, nil, consultations, 0, false, log),
		Notifications: service.NewNotificationService(nil, nil, log),
		Remedies:      service.NewRemedyService(nil, log),
		Metrics:       service.NewMetricService(nil),
	}

	r := New(deps)
	r.SetupRoutes()
	return r
}

func postJSON(r *Router, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func postJSONAs(r *Router, path, token string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func TestSymptomAnalysisEmptyInputRejectedWithoutProviderCall(t *testing.T) {
	provider := &stubProvider{response: stubAnalysis, configured: true}
	r := newTestRouter(t, provider)

	w := postJSON(r, "/ai-symptom-analysis", map[string]interface{}{
		"symptoms":    []string{"", "  "},
		"description": "",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestSymptomAnalysisSuccess(t *testing.T) {
	provider := &stubProvider{response: stubAnalysis, configured: true}
	r := newTestRouter(t, provider)

	w := postJSON(r, "/ai-symptom-analysis", map[string]interface{}{
		"symptoms":    []string{"Fever", "Cough"},
		"description": "Started two days ago",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var analysis aiclient.SymptomAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, "moderate", analysis.SeverityLevel)
	assert.NotEmpty(t, analysis.PossibleConditions)
	assert.NotEmpty(t, analysis.Disclaimer)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestSymptomAnalysisUnconfiguredProvider(t *testing.T) {
	provider := &stubProvider{configured: false}
	r := newTestRouter(t, provider)

	w := postJSON(r, "/ai-symptom-analysis", map[string]interface{}{
		"symptoms": []string{"Fever"},
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIGURATION_ERROR")
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestPreflightRequestShortCircuits(t *testing.T) {
	r := newTestRouter(t, &stubProvider{configured: true})

	req := httptest.NewRequest(http.MethodOptions, "/ai-symptom-analysis", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSHeaderOnSimpleRequest(t *testing.T) {
	r := newTestRouter(t, &stubProvider{response: stubAnalysis, configured: true})

	w := postJSON(r, "/ai-symptom-analysis", map[string]interface{}{
		"symptoms": []string{"Headache"},
	})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r := newTestRouter(t, &stubProvider{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/symptoms/reports", nil)
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConsultationBookingIsPatientOnly(t *testing.T) {
	r := newTestRouter(t, &stubProvider{configured: true})

	body := map[string]interface{}{
		"title":             "Recurring migraines",
		"consultation_type": "chat",
		"scheduled_at":      "2026-09-01T10:00:00Z",
	}

	doctorToken, err := jwt.GenerateToken(7, "doctor@example.com", models.UserTypeDoctor)
	require.NoError(t, err)

	w := postJSONAs(r, "/api/v1/consultations", doctorToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_ROLE")

	patientToken, err := jwt.GenerateToken(8, "patient@example.com", models.UserTypePatient)
	require.NoError(t, err)

	// The patient clears the role check; with no database configured the
	// booking itself reports a configuration error.
	w = postJSONAs(r, "/api/v1/consultations", patientToken, body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIGURATION_ERROR")
}

func TestVoiceRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t, &stubProvider{configured: true})

	for _, path := range []string{"/api/v1/voice/transcribe", "/api/v1/voice/synthesize"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		r.Engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubProvider{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "status")
}
