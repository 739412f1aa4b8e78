package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/api/handlers"
	"github.com/Rishabh510/ai-concierge/internal/store"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/middleware"
	"github.com/Rishabh510/ai-concierge/pkg/mongo"
	"github.com/Rishabh510/ai-concierge/pkg/otel"
	"github.com/Rishabh510/ai-concierge/pkg/search"
	"github.com/Rishabh510/ai-concierge/pkg/stt"
	"github.com/Rishabh510/ai-concierge/pkg/tts"
)

type agentServer struct {
	cfg         *env.Config
	redisClient *redis.Client
	handler     *handlers.Handler
}

func main() {
	cfg, err := env.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.OTELEnabled {
		shutdown, err := otel.InitTracing("voice-agent", "1.0.0", cfg.OTELEndpoint)
		if err != nil {
			logger.Log.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer shutdown()
			logger.Log.Info("OpenTelemetry tracing enabled", zap.String("endpoint", cfg.OTELEndpoint))
		}
	}

	logger.Log.Info("Starting voice agent",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.AppPort),
	)

	// Redis is optional: without it dispatch idempotency is off.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Failed to parse Redis URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("Redis unreachable, idempotency disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	// MongoDB is optional: without it call records are log-only.
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		mongoClient, err = mongo.NewClient(cfg.MongoURI, cfg.DBName)
		if err != nil {
			logger.Log.Warn("MongoDB unreachable, call records disabled", zap.Error(err))
			mongoClient = nil
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mongoClient.Disconnect(ctx); err != nil {
					logger.Log.Warn("Failed to disconnect MongoDB", zap.Error(err))
				}
			}()
		}
	}

	if cfg.PlatformURL == "" || cfg.PlatformAPIKey == "" || cfg.PlatformAPISecret == "" {
		logger.Log.Fatal("PLATFORM_URL, PLATFORM_API_KEY and PLATFORM_API_SECRET are required")
	}
	platform := livekit.NewClient(cfg.PlatformURL, cfg.PlatformAPIKey, cfg.PlatformAPISecret)

	timeout := time.Duration(cfg.AITimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	providers := []ai.Provider{}
	if cfg.OpenAIApiKey != "" {
		openAIProvider := ai.NewOpenAIProvider(cfg.OpenAIApiKey, cfg.OpenAIModel, cfg.OpenAIMaxTokens, timeout, logger.Log)
		if openAIProvider.IsAvailable() {
			providers = append(providers, openAIProvider)
			logger.Log.Info("OpenAI provider initialized", zap.String("model", cfg.OpenAIModel))
		}
	}
	if cfg.GeminiApiKey != "" {
		geminiProvider := ai.NewGeminiProvider(cfg.GeminiApiKey, cfg.GeminiModel, timeout, logger.Log)
		if geminiProvider.IsAvailable() {
			providers = append(providers, geminiProvider)
			logger.Log.Info("Gemini provider initialized", zap.String("model", cfg.GeminiModel))
		}
	}
	if len(providers) == 0 {
		logger.Log.Fatal("No conversational model provider configured")
	}
	aiManager := ai.NewManager(providers, logger.Log)

	transcriber := stt.NewDeepgramClient(cfg.DeepgramApiKey, timeout, logger.Log)
	if !transcriber.IsAvailable() {
		logger.Log.Fatal("DEEPGRAM_API_KEY is required")
	}

	synthesizer := tts.NewService(
		cfg.ElevenLabsApiKey,
		cfg.ElevenLabsVoiceID,
		cfg.ElevenLabsModel,
		cfg.ElevenLabsOutputFormat,
		timeout,
		logger.Log,
	)
	if !synthesizer.IsAvailable() {
		logger.Log.Fatal("ELEVENLABS_API_KEY is required")
	}

	var searchClient *search.Client
	if cfg.SerperApiKey != "" {
		searchClient = search.NewClient(cfg.SerperApiKey, timeout, logger.Log)
		logger.Log.Info("Web search initialized")
	}

	callStore := store.NewCallStore(mongoClient)

	apiHandler := handlers.NewHandler(
		cfg, redisClient, mongoClient, platform, aiManager,
		transcriber, synthesizer, searchClient, callStore,
	)

	server := &agentServer{cfg: cfg, redisClient: redisClient, handler: apiHandler}
	router := server.setupRouter()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("Voice agent listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func (s *agentServer) setupRouter() *gin.Engine {
	if s.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Trace())

	if s.cfg.OTELEnabled {
		router.Use(otel.GinMiddleware())
	}

	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] %s %s %d %s\n",
			param.TimeStamp.Format(time.RFC3339),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
		)
	}))

	corsConfig := cors.DefaultConfig()
	if s.cfg.CORSAllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{s.cfg.CORSAllowedOrigins}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handler.HealthCheck)
	router.GET("/metrics", s.handler.GetMetrics)
	router.GET("/metrics/prometheus", s.handler.GetPrometheusMetrics)

	calls := router.Group("/api/v1/calls")
	calls.Use(middleware.Idempotency(s.redisClient))
	{
		calls.POST("/dispatch", s.handler.DispatchCall)
		calls.POST("/inbound", s.handler.InboundCall)
	}

	return router
}
