package call

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/pkg/logger"
)

// Terminator ends a call by releasing its room. Ending is idempotent
// and best-effort: a release failure is logged, not retried, and does
// not stop the local session from completing.
type Terminator struct {
	telephony Telephony
	room      string
	log       *zap.Logger

	mu     sync.Mutex
	ended  bool
	reason string
}

// NewTerminator builds the termination controller for a call session.
func NewTerminator(telephony Telephony, room string) *Terminator {
	return &Terminator{
		telephony: telephony,
		room:      room,
		log:       logger.Log.With(zap.String("room", room)),
	}
}

// End releases the call's room. Repeated calls are no-ops returning
// the reason recorded on the first call.
func (t *Terminator) End(ctx context.Context, reason string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return t.reason
	}
	t.ended = true
	t.reason = reason

	t.log.Info("Ending call", zap.String("reason", reason))

	if err := t.telephony.DeleteRoom(ctx, t.room); err != nil {
		t.log.Warn("Failed to delete room during call end", zap.Error(err))
	}

	return reason
}

// Ended reports whether the call has been terminated.
func (t *Terminator) Ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ended
}
