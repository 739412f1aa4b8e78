// Package store persists call records. Persistence is best-effort: a
// missing or failing database never interferes with live calls.
package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/mongo"
	"github.com/Rishabh510/ai-concierge/pkg/otel"
	"github.com/Rishabh510/ai-concierge/pkg/retry"
)

const callsCollection = "call_records"

// CallStore writes call analytics to MongoDB. A nil store (no
// database configured) drops records after logging them.
type CallStore struct {
	client *mongo.Client
}

// NewCallStore wraps the MongoDB client. Pass nil to run without
// persistence.
func NewCallStore(client *mongo.Client) *CallStore {
	if client == nil {
		return nil
	}
	return &CallStore{client: client}
}

// SaveAnalytics persists one finished call's summary. Failures are
// logged, never returned: the session has already completed and there
// is nobody left to retry for.
func (s *CallStore) SaveAnalytics(ctx context.Context, record *call.Analytics) {
	if s == nil {
		logger.Log.Info("Call record (not persisted)",
			zap.String("call_id", record.CallID),
			zap.String("outcome", record.Outcome),
			zap.String("duration", record.Duration),
		)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := otel.ExecuteInsert(ctx, callsCollection, func(spanCtx context.Context) error {
		return retry.Do(spanCtx, retry.DefaultPolicy(), func(attempt int) error {
			_, err := s.client.Collection(callsCollection).InsertOne(spanCtx, record)
			if err != nil {
				logger.Log.Warn("Call record insert failed",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
			}
			return err
		})
	})
	if err != nil {
		logger.Log.Error("Failed to persist call record",
			zap.String("call_id", record.CallID),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("Call record persisted",
		zap.String("call_id", record.CallID),
		zap.String("outcome", record.Outcome),
	)
}
