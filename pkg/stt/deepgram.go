package stt

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

// DeepgramClient handles Speech-to-Text using Deepgram API
type DeepgramClient struct {
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
	baseURL string
}

// NewDeepgramClient creates a new Deepgram STT client
func NewDeepgramClient(apiKey string, timeout time.Duration, logger *zap.Logger) *DeepgramClient {
	if apiKey == "" {
		return &DeepgramClient{logger: logger}
	}

	return &DeepgramClient{
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger,
		baseURL: "https://api.deepgram.com/v1",
	}
}

// IsAvailable checks if Deepgram client is available
func (d *DeepgramClient) IsAvailable() bool {
	return d.apiKey != ""
}

// Request represents a Deepgram STT request
type Request struct {
	AudioData  []byte // Raw PCM16 audio data (16kHz, mono)
	SampleRate int    // Sample rate (should be 16000)
	Language   string // Optional language code (e.g., "en", "hi")
	Model      string // Optional model (e.g., "nova-2", "base")
	Punctuate  bool   // Add punctuation
}

// Response represents a Deepgram STT response
type Response struct {
	Text     string
	Language string
}

// Transcribe converts speech audio to text using Deepgram.
// Audio must be raw PCM16, 16kHz, mono, little-endian.
func (d *DeepgramClient) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	if !d.IsAvailable() {
		return nil, fmt.Errorf("Deepgram STT service not available. Set DEEPGRAM_API_KEY environment variable")
	}

	if len(req.AudioData) == 0 {
		return nil, fmt.Errorf("audio data cannot be empty")
	}

	sampleRate := req.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}

	model := req.Model
	if model == "" {
		model = "nova-2"
	}

	url := fmt.Sprintf("%s/listen?model=%s&punctuate=%t&encoding=linear16&sample_rate=%d",
		d.baseURL, model, req.Punctuate, sampleRate)
	if req.Language != "" {
		url += "&language=" + req.Language
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(req.AudioData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Token "+d.apiKey)
	httpReq.Header.Set("Content-Type", "audio/raw")

	client := &http.Client{Timeout: d.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Deepgram API error: %d - %s", resp.StatusCode, string(body))
	}

	var dgResp struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
				DetectedLanguage string `json:"detected_language"`
			} `json:"channels"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&dgResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(dgResp.Results.Channels) == 0 || len(dgResp.Results.Channels[0].Alternatives) == 0 {
		return &Response{}, nil
	}

	channel := dgResp.Results.Channels[0]

	return &Response{
		Text:     channel.Alternatives[0].Transcript,
		Language: channel.DetectedLanguage,
	}, nil
}
