package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/session"
	"github.com/Rishabh510/ai-concierge/pkg/errors"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/metrics"
	"github.com/Rishabh510/ai-concierge/pkg/validation"
)

// DispatchRequest asks for an outbound call to a customer.
type DispatchRequest struct {
	PhoneNumber  string `json:"phone_number" binding:"required"`
	CustomerName string `json:"customer_name,omitempty"`
	City         string `json:"city,omitempty"`
	TransferTo   string `json:"transfer_to,omitempty"`
}

// DispatchResponse reports the accepted call.
type DispatchResponse struct {
	CallID   string `json:"call_id"`
	Room     string `json:"room"`
	Status   string `json:"status"`
	Warning  string `json:"warning,omitempty"`
	Dispatch string `json:"dispatch_id,omitempty"`
}

// DispatchCall validates the request, registers an agent dispatch with
// the platform, and starts the call session on its own goroutine.
func (h *Handler) DispatchCall(c *gin.Context) {
	start := time.Now()

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordRequest("dispatch", false, time.Since(start))
		errors.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	phone, err := validation.NormalizeE164(req.PhoneNumber)
	if err != nil {
		metrics.RecordRequest("dispatch", false, time.Since(start))
		errors.BadRequest(c, "Invalid phone number format. Must include country code (e.g., +919876543210)")
		return
	}
	req.PhoneNumber = phone
	if name := strings.TrimSpace(req.CustomerName); len(name) > 100 {
		metrics.RecordRequest("dispatch", false, time.Since(start))
		errors.BadRequest(c, "Customer name must be at most 100 characters")
		return
	}
	if city := strings.TrimSpace(req.City); len(city) > 50 {
		metrics.RecordRequest("dispatch", false, time.Since(start))
		errors.BadRequest(c, "City must be at most 50 characters")
		return
	}
	req.TransferTo = strings.TrimSpace(req.TransferTo)
	if req.TransferTo != "" {
		target, err := validation.NormalizeE164(req.TransferTo)
		if err != nil {
			metrics.RecordRequest("dispatch", false, time.Since(start))
			errors.BadRequest(c, "Invalid transfer number format")
			return
		}
		req.TransferTo = target
	}

	callID := uuid.New().String()
	room := fmt.Sprintf("outbound_%s_%d", strings.TrimPrefix(req.PhoneNumber, "+"), time.Now().Unix())

	metadata := map[string]string{
		"phone_number": req.PhoneNumber,
		"call_id":      callID,
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		metadata["customer_name"] = name
	}
	if city := strings.TrimSpace(req.City); city != "" {
		metadata["city"] = city
	}
	if req.TransferTo != "" {
		metadata["transfer_to"] = req.TransferTo
	}
	rawMetadata, _ := json.Marshal(metadata)

	resp := DispatchResponse{
		CallID: callID,
		Room:   room,
		Status: "dispatched",
	}
	if h.cfg.SIPOutboundTrunkID == "" {
		resp.Warning = "SIP trunk not configured - outbound calling may not work"
	}

	dispatch, err := h.platform.CreateAgentDispatch(c.Request.Context(), livekit.DispatchRequest{
		AgentName: h.cfg.AgentIdentity,
		Room:      room,
		Metadata:  string(rawMetadata),
	})
	if err != nil {
		metrics.RecordRequest("dispatch", false, time.Since(start))
		h.logger.Error("Failed to create agent dispatch", zap.Error(err))
		errors.ServiceUnavailable(c, "Could not reach the call platform")
		return
	}
	resp.Dispatch = dispatch.ID

	h.logger.Info("Outbound call dispatched",
		zap.String("call_id", callID),
		zap.String("room", room),
		logger.MaskPhone("phone_number", req.PhoneNumber),
	)

	go h.runSession(callID, room, string(rawMetadata))

	metrics.RecordRequest("dispatch", true, time.Since(start))
	c.JSON(http.StatusAccepted, resp)
}

// runSession hosts one call on its own goroutine.
func (h *Handler) runSession(callID, room, rawMetadata string) {
	sess := session.New(h.sessionParams(callID, room, rawMetadata))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if err := sess.Run(ctx); err != nil {
		h.logger.Error("Call session ended with error",
			zap.String("call_id", callID),
			zap.String("room", room),
			zap.Error(err),
		)
	}
}
