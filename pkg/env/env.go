package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string
	TZ      string

	// Managed media/agent platform
	PlatformURL        string
	PlatformAPIKey     string
	PlatformAPISecret  string
	SIPOutboundTrunkID string
	AgentIdentity      string

	// Optional infrastructure
	RedisURL string
	MongoURI string
	DBName   string

	// AI providers
	OpenAIApiKey    string
	OpenAIModel     string
	OpenAIMaxTokens int
	GeminiApiKey    string
	GeminiModel     string
	AITimeoutMs     int

	// STT (Deepgram)
	DeepgramApiKey string
	STTLanguage    string

	// TTS (ElevenLabs)
	ElevenLabsApiKey       string
	ElevenLabsVoiceID      string
	ElevenLabsModel        string
	ElevenLabsOutputFormat string

	// Web search (Serper)
	SerperApiKey string

	// Call recording egress
	RecordingEnabled   bool
	RecordingFormat    string
	RecordingAudioOnly bool
	S3RecordingBucket  string
	S3RecordingRegion  string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Call behaviour
	ParticipantTimeoutSec int
	MaxTransferAttempts   int

	LogLevel           string
	CORSAllowedOrigins string

	OTELEndpoint string
	OTELEnabled  bool
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// The .env file is optional; in production everything comes from
		// real environment variables.
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),
		TZ:      getEnv("TZ", "Asia/Kolkata"),

		PlatformURL:        getEnv("PLATFORM_URL", "https://localhost:7880"),
		PlatformAPIKey:     getEnv("PLATFORM_API_KEY", ""),
		PlatformAPISecret:  getEnv("PLATFORM_API_SECRET", ""),
		SIPOutboundTrunkID: getEnv("SIP_OUTBOUND_TRUNK_ID", ""),
		AgentIdentity:      getEnv("AGENT_IDENTITY", "wedding-concierge"),

		RedisURL: getEnv("REDIS_URL", ""),
		MongoURI: getEnv("MONGO_URI", ""),
		DBName:   getEnv("DB_NAME", "concierge"),

		OpenAIApiKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIMaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 2000),
		GeminiApiKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeoutMs:     getEnvInt("AI_TIMEOUT_MS", 15000),

		DeepgramApiKey: getEnv("DEEPGRAM_API_KEY", ""),
		STTLanguage:    getEnv("STT_LANGUAGE", ""),

		ElevenLabsApiKey:       getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID:      getEnv("ELEVENLABS_VOICE_ID", "H8bdWZHK2OgZwTN7ponr"),
		ElevenLabsModel:        getEnv("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
		ElevenLabsOutputFormat: getEnv("ELEVENLABS_OUTPUT_FORMAT", "pcm_16000"),

		SerperApiKey: getEnv("SERPER_API_KEY", ""),

		RecordingEnabled:   getEnvBool("ENABLE_AUDIO_RECORDING", false),
		RecordingFormat:    getEnv("RECORDING_FILE_FORMAT", "ogg"),
		RecordingAudioOnly: getEnvBool("RECORDING_AUDIO_ONLY", true),
		S3RecordingBucket:  getEnv("S3_RECORDING_BUCKET", ""),
		S3RecordingRegion:  getEnv("S3_RECORDING_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		ParticipantTimeoutSec: getEnvInt("PARTICIPANT_TIMEOUT_SEC", 30),
		MaxTransferAttempts:   getEnvInt("MAX_TRANSFER_ATTEMPTS", 3),

		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		OTELEndpoint: getEnv("OTEL_ENDPOINT", ""),
		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
	}

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", cfg.TZ, err)
	}
	time.Local = loc

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}
