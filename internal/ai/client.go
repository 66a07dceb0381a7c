package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"health-connect-demo/backend/pkg/config"
)

const (
	openAIChatURL       = "https://api.openai.com/v1/chat/completions"
	openAITranscribeURL = "https://api.openai.com/v1/audio/transcriptions"
	elevenLabsTTSURL    = "https://api.elevenlabs.io/v1/text-to-speech/%s"
)

// ErrNotConfigured is returned when a provider key is missing
var ErrNotConfigured = errors.New("AI provider not configured")

// Client talks to the LLM and speech providers over plain HTTP
type Client struct {
	openAIKey     string
	elevenLabsKey string
	httpClient    *http.Client
	model         string
	advisorModel  string
	maxTokens     int
	temperature   float64
}

// NewClient creates a provider client from the AI config section
func NewClient(cfg *config.Config) *Client {
	return &Client{
		openAIKey:     cfg.AI.OpenAIKey,
		elevenLabsKey: cfg.AI.ElevenLabsKey,
		httpClient:    &http.Client{Timeout: cfg.AI.RequestTimeout},
		model:         cfg.AI.Model,
		advisorModel:  cfg.AI.AdvisorModel,
		maxTokens:     cfg.AI.MaxTokens,
		temperature:   cfg.AI.Temperature,
	}
}

// Configured reports whether the LLM provider can be called
func (c *Client) Configured() bool {
	return c.openAIKey != ""
}

// SpeechConfigured reports whether the TTS provider can be called
func (c *Client) SpeechConfigured() bool {
	return c.elevenLabsKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AnalyzeSymptoms asks the model for a JSON-only symptom analysis and returns
// the raw completion text. Parsing into SymptomAnalysis is the caller's job.
func (c *Client) AnalyzeSymptoms(ctx context.Context, query SymptomQuery) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	historyJSON := "{}"
	if len(query.PatientHistory) > 0 {
		if b, err := json.Marshal(query.PatientHistory); err == nil {
			historyJSON = string(b)
		}
	}

	userPrompt := fmt.Sprintf(
		"Symptoms: %s\nDescription: %s\nPatient history: %s",
		strings.Join(query.Symptoms, ", "),
		query.Description,
		historyJSON,
	)

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: symptomSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	return c.complete(ctx, req)
}

// GenerateAdvice asks the model for free-text health advice
func (c *Client) GenerateAdvice(ctx context.Context, symptoms, userHistory string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	userPrompt := "Symptoms: " + symptoms
	if userHistory != "" {
		userPrompt += "\nRelevant history: " + userHistory
	}

	req := chatRequest{
		Model: c.advisorModel,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	}

	return c.complete(ctx, req)
}

// ChatHistoryEntry is one transcript entry passed as reply context
type ChatHistoryEntry struct {
	Assistant bool
	Content   string
}

// AssistantReply generates a conversational reply for a chat consultation
func (c *Client) AssistantReply(ctx context.Context, history []ChatHistoryEntry, userMessage string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	messages := []chatMessage{
		{Role: "system", Content: assistantSystemPrompt},
	}
	for _, entry := range history {
		role := "user"
		if entry.Assistant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: entry.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	req := chatRequest{
		Model:       c.advisorModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	}

	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAIChatURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openAIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making API request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status code %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %v", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("no response generated")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// TextToSpeech converts text to audio using ElevenLabs
func (c *Client) TextToSpeech(ctx context.Context, text string, voiceType string) ([]byte, error) {
	if c.elevenLabsKey == "" {
		return nil, errors.New("text-to-speech unavailable: ElevenLabs API key not configured")
	}

	voiceID := voiceIDForType(voiceType)
	url := fmt.Sprintf(elevenLabsTTSURL, voiceID)

	type ttsRequest struct {
		Text          string `json:"text"`
		VoiceSettings struct {
			Stability       float64 `json:"stability"`
			SimilarityBoost float64 `json:"similarity_boost"`
		} `json:"voice_settings"`
	}

	requestBody := ttsRequest{Text: text}
	requestBody.VoiceSettings.Stability = 0.75
	requestBody.VoiceSettings.SimilarityBoost = 0.75

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling TTS request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating TTS request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.elevenLabsKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making TTS API request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API request failed with status code %d: %s", resp.StatusCode, string(bodyBytes))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading TTS response body: %v", err)
	}

	return audioData, nil
}

// voiceIDForType maps voice type to ElevenLabs voice ID
func voiceIDForType(voiceType string) string {
	switch voiceType {
	case "male":
		return "AZnzlk1XvdvUeBnXmlld"
	case "calm":
		return "MF3mGyEYCl7XYWbV9V6O"
	default:
		return "21m00Tcm4TlvDq8ikWAM"
	}
}

// SpeechToText converts audio to text via Whisper
func (c *Client) SpeechToText(ctx context.Context, audioData []byte, filename string) (string, error) {
	if c.openAIKey == "" {
		return "", errors.New("speech-to-text unavailable: OpenAI API key not configured")
	}

	if filename == "" {
		filename = "audio.webm"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("error creating form file: %v", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return "", fmt.Errorf("error writing audio data: %v", err)
	}

	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("error writing form field: %v", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error closing multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAITranscribeURL, body)
	if err != nil {
		return "", fmt.Errorf("error creating STT request: %v", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.openAIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making STT API request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("STT API request failed with status code %d: %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading STT response body: %v", err)
	}

	var sttResponse struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(bodyBytes, &sttResponse); err != nil {
		return "", fmt.Errorf("error unmarshaling STT response: %v", err)
	}

	return sttResponse.Text, nil
}

const symptomSystemPrompt = `You are a medical information assistant. Analyze the reported symptoms and respond with ONLY a JSON object, no other text, matching exactly this shape:
{
  "possibleConditions": [{"condition": "name", "probability": "high|medium|low", "description": "brief description"}],
  "severityLevel": "low|moderate|high|emergency",
  "recommendedActions": ["action 1", "action 2"],
  "redFlags": ["warning sign 1"],
  "homeRemedies": [{"remedy": "name", "instructions": "how to use"}],
  "whenToSeekHelp": "guidance on when to see a doctor",
  "disclaimer": "medical disclaimer"
}
You are not a doctor and this is not a diagnosis. Always include a disclaimer advising consultation with a healthcare professional.`

const advisorSystemPrompt = `You are a helpful health advisor. Provide general wellness guidance for the described symptoms. Be clear, empathetic and concise. Always remind the user that this is general information and not a substitute for professional medical advice, and to seek immediate care for severe or worsening symptoms.`

const assistantSystemPrompt = `You are a healthcare assistant in a patient consultation chat. Answer health questions helpfully and concisely. You cannot diagnose or prescribe; encourage the patient to discuss specifics with their doctor.`
