package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/session"
	"github.com/Rishabh510/ai-concierge/internal/store"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/mongo"
	"github.com/Rishabh510/ai-concierge/pkg/search"
)

type Handler struct {
	cfg          *env.Config
	redisClient  *redis.Client
	mongoClient  *mongo.Client
	logger       *zap.Logger
	platform     *livekit.Client
	aiManager    *ai.Manager
	transcriber  session.Transcriber
	synthesizer  session.Synthesizer
	searchClient *search.Client
	callStore    *store.CallStore
}

func NewHandler(
	cfg *env.Config,
	redisClient *redis.Client,
	mongoClient *mongo.Client,
	platform *livekit.Client,
	aiManager *ai.Manager,
	transcriber session.Transcriber,
	synthesizer session.Synthesizer,
	searchClient *search.Client,
	callStore *store.CallStore,
) *Handler {
	return &Handler{
		cfg:          cfg,
		redisClient:  redisClient,
		mongoClient:  mongoClient,
		logger:       logger.Log,
		platform:     platform,
		aiManager:    aiManager,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		searchClient: searchClient,
		callStore:    callStore,
	}
}

// sessionParams assembles the per-call dependency set.
func (h *Handler) sessionParams(callID, room, rawMetadata string) session.Params {
	return session.Params{
		Config:      h.cfg,
		Platform:    h.platform,
		AIManager:   h.aiManager,
		Transcriber: h.transcriber,
		Synthesizer: h.synthesizer,
		Search:      h.searchClient,
		Store:       h.callStore,
		CallID:      callID,
		Room:        room,
		RawMetadata: rawMetadata,
	}
}
