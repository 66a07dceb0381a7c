package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"health-connect-demo/backend/internal/ai"
)

// APIClient is a thin HTTP client for the backend, used by the CLI and by
// the symptom checker as its Analyzer.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given server
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze submits a symptom query to the analysis endpoint
func (c *APIClient) Analyze(ctx context.Context, query ai.SymptomQuery) (*ai.SymptomAnalysis, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ai-symptom-analysis", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			return nil, fmt.Errorf("%s: %s", eb.Error.Code, eb.Error.Message)
		}
		return nil, fmt.Errorf("analysis request failed with status %d", resp.StatusCode)
	}

	var analysis ai.SymptomAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("undecodable analysis response: %w", err)
	}

	return &analysis, nil
}

// Advise requests free-text advice from the advisor endpoint
func (c *APIClient) Advise(ctx context.Context, symptoms, userHistory string) (string, error) {
	payload := map[string]string{"symptoms": symptoms}
	if userHistory != "" {
		payload["userHistory"] = userHistory
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ai-health-advisor", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Advice string `json:"advice"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", err
	}
	return result.Advice, nil
}
