package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/pkg/errors"
	"github.com/Rishabh510/ai-concierge/pkg/metrics"
)

// InboundRequest is the platform webhook announcing an inbound call
// waiting in a room. Metadata is optional; an inbound caller is often
// anonymous.
type InboundRequest struct {
	Room     string `json:"room" binding:"required"`
	Metadata string `json:"metadata,omitempty"`
}

// InboundResponse acknowledges the accepted call.
type InboundResponse struct {
	CallID string `json:"call_id"`
	Room   string `json:"room"`
	Status string `json:"status"`
}

// InboundCall starts an agent session for a waiting inbound caller.
func (h *Handler) InboundCall(c *gin.Context) {
	start := time.Now()

	var req InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordRequest("inbound", false, time.Since(start))
		errors.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	callID := uuid.New().String()

	h.logger.Info("Inbound call accepted",
		zap.String("call_id", callID),
		zap.String("room", req.Room),
	)

	go h.runSession(callID, req.Room, req.Metadata)

	metrics.RecordRequest("inbound", true, time.Since(start))
	c.JSON(http.StatusAccepted, InboundResponse{
		CallID: callID,
		Room:   req.Room,
		Status: "accepted",
	})
}
