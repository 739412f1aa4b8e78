package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Service handles Text-to-Speech using ElevenLabs
type Service struct {
	apiKey              string
	defaultVoiceID      string
	defaultModelID      string
	defaultOutputFormat string
	timeout             time.Duration
	logger              *zap.Logger
	baseURL             string
}

// NewService creates a new TTS service
func NewService(apiKey, voiceID, modelID, outputFormat string, timeout time.Duration, logger *zap.Logger) *Service {
	if apiKey == "" {
		return &Service{logger: logger}
	}

	return &Service{
		apiKey:              apiKey,
		defaultVoiceID:      voiceID,
		defaultModelID:      modelID,
		defaultOutputFormat: outputFormat,
		timeout:             timeout,
		logger:              logger,
		baseURL:             "https://api.elevenlabs.io/v1",
	}
}

// IsAvailable checks if TTS service is available
func (s *Service) IsAvailable() bool {
	return s.apiKey != ""
}

// Request represents a TTS request
type Request struct {
	Text            string
	VoiceID         string
	ModelID         string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
}

// Synthesize converts text to speech audio
func (s *Service) Synthesize(ctx context.Context, req *Request) ([]byte, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("TTS service not available. Set ELEVENLABS_API_KEY environment variable")
	}

	if req.Text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.defaultVoiceID
	}
	if voiceID == "" {
		voiceID = "21m00Tcm4TlvDq8ikWAM" // Default voice
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = s.defaultModelID
	}
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}

	outputFormat := req.OutputFormat
	if outputFormat == "" {
		outputFormat = s.defaultOutputFormat
	}
	if outputFormat == "" {
		outputFormat = "pcm_16000"
	}

	stability := req.Stability
	if stability == 0 {
		stability = 0.5
	}

	similarityBoost := req.SimilarityBoost
	if similarityBoost == 0 {
		similarityBoost = 0.5
	}

	requestBody := map[string]interface{}{
		"text":     req.Text,
		"model_id": modelID,
		"voice_settings": map[string]interface{}{
			"stability":        stability,
			"similarity_boost": similarityBoost,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", s.baseURL, voiceID, outputFormat)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", s.apiKey)

	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs API error: %d - %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}

	return audio, nil
}
