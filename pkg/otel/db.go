package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ExecuteWithSpan wraps a MongoDB operation with a DB client span.
func ExecuteWithSpan(ctx context.Context, collection, operation string, fn func(ctx context.Context) error) error {
	// Get tracer from global provider (works even if not explicitly initialized)
	tracer := otel.Tracer("voice-agent")

	spanName := fmt.Sprintf("db.%s", operation)
	spanCtx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemKey.String("mongodb"),
			semconv.DBOperationKey.String(operation),
			attribute.String("db.collection", collection),
		),
	)
	defer span.End()

	err := fn(spanCtx)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(
			attribute.Bool("db.error", true),
			attribute.String("db.error.message", err.Error()),
		)
	} else {
		span.SetAttributes(
			attribute.Bool("db.error", false),
		)
	}

	return err
}

// ExecuteInsert wraps an insert with a DB span
func ExecuteInsert(ctx context.Context, collection string, fn func(ctx context.Context) error) error {
	return ExecuteWithSpan(ctx, collection, "INSERT", fn)
}

// ExecuteUpdate wraps an update with a DB span
func ExecuteUpdate(ctx context.Context, collection string, fn func(ctx context.Context) error) error {
	return ExecuteWithSpan(ctx, collection, "UPDATE", fn)
}

// ExecuteFind wraps a find with a DB span
func ExecuteFind(ctx context.Context, collection string, fn func(ctx context.Context) error) error {
	return ExecuteWithSpan(ctx, collection, "FIND", fn)
}
