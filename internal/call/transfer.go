package call

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/validation"
)

// Transfer outcomes. The conversational policy narrates each one
// differently; the state machine only decides which fires.
type TransferOutcome int

const (
	Transferred TransferOutcome = iota
	TransferLimitExceeded
	TransferNotConfigured
	TransferInvalidNumber
	TransferDialFailed
)

func (o TransferOutcome) String() string {
	switch o {
	case Transferred:
		return "transferred"
	case TransferLimitExceeded:
		return "limit_exceeded"
	case TransferNotConfigured:
		return "not_configured"
	case TransferInvalidNumber:
		return "invalid_number"
	case TransferDialFailed:
		return "dial_failed"
	default:
		return "unknown"
	}
}

// Telephony is the slice of the platform client the transfer and
// termination controllers use.
type Telephony interface {
	CreateSIPParticipant(ctx context.Context, req livekit.SIPParticipantRequest) (*livekit.SIPParticipantInfo, error)
	RemoveParticipant(ctx context.Context, room, identity string) error
	DeleteRoom(ctx context.Context, room string) error
}

// Transferer runs the transfer-to-human state machine for one call.
// The attempt counter counts requests made, not requests succeeded, so
// refused requests also burn an attempt.
type Transferer struct {
	telephony     Telephony
	room          string
	agentIdentity string
	sipTrunkID    string
	maxAttempts   int
	meta          *Metadata
	startedAt     time.Time
	log           *zap.Logger

	attempts int
}

// NewTransferer builds the transfer controller for a call session.
func NewTransferer(telephony Telephony, room, agentIdentity, sipTrunkID string, maxAttempts int, meta *Metadata, startedAt time.Time) *Transferer {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Transferer{
		telephony:     telephony,
		room:          room,
		agentIdentity: agentIdentity,
		sipTrunkID:    sipTrunkID,
		maxAttempts:   maxAttempts,
		meta:          meta,
		startedAt:     startedAt,
		log:           logger.Log.With(zap.String("room", room)),
	}
}

// Attempts returns the number of transfer requests made so far.
func (t *Transferer) Attempts() int {
	return t.attempts
}

// Request attempts to hand the call to a human operator. The attempt
// counter is incremented before any validation, so the cap applies to
// attempts made. Dial failures are absorbed into an outcome, never
// returned as an error.
func (t *Transferer) Request(ctx context.Context, reason string) TransferOutcome {
	t.attempts++

	if t.attempts > t.maxAttempts {
		t.log.Warn("Transfer refused, attempt limit exceeded",
			zap.Int("attempts", t.attempts),
			zap.Int("max_attempts", t.maxAttempts),
		)
		return TransferLimitExceeded
	}

	target := t.meta.TransferTo
	if target == "" {
		t.log.Warn("Transfer refused, no transfer target configured")
		return TransferNotConfigured
	}

	if !validation.IsE164(target) {
		t.log.Warn("Transfer refused, invalid transfer number",
			logger.MaskPhone("transfer_to", target),
		)
		return TransferInvalidNumber
	}

	snapshot := t.snapshot(reason)
	t.log.Info("Dialing human operator",
		logger.MaskPhone("transfer_to", target),
		zap.Int("attempt", t.attempts),
		zap.String("reason", reason),
	)

	_, err := t.telephony.CreateSIPParticipant(ctx, livekit.SIPParticipantRequest{
		RoomName:            t.room,
		SIPTrunkID:          t.sipTrunkID,
		SIPCallTo:           target,
		ParticipantIdentity: fmt.Sprintf("human_operator_%d", time.Now().Unix()),
		ParticipantName:     "Human Operator",
		WaitUntilAnswered:   true,
		Attributes:          snapshot,
	})
	if err != nil {
		t.log.Error("Transfer dial failed, continuing with AI assistance", zap.Error(err))
		return TransferDialFailed
	}

	// Operator is bridged in; drop the agent so the humans talk directly.
	if err := t.telephony.RemoveParticipant(ctx, t.room, t.agentIdentity); err != nil {
		t.log.Warn("Failed to remove agent participant after transfer", zap.Error(err))
	}

	t.log.Info("Call transferred to human operator")
	return Transferred
}

// snapshot captures the customer context handed to the operator.
func (t *Transferer) snapshot(reason string) map[string]string {
	return map[string]string{
		"customer_name":  t.meta.CustomerName,
		"customer_phone": t.meta.PhoneNumber,
		"customer_city":  t.meta.City,
		"call_duration":  FormatCallDuration(time.Since(t.startedAt)),
		"reason":         reason,
		"transferred_at": time.Now().UTC().Format(time.RFC3339),
	}
}
