// Package otel provides OpenTelemetry span helpers shared by the sync coordinator,
// the ledger write wrapper and the API.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used across the application
const (
	AttrSyncID      = attribute.Key("sync.id")
	AttrSyncForced  = attribute.Key("sync.forced")
	AttrSyncDomain  = attribute.Key("sync.domain")
	AttrSyncReason  = attribute.Key("sync.reason")
	AttrSyncOK      = attribute.Key("sync.ok")
	AttrTeamID      = attribute.Key("team.id")
	AttrLedgerOp    = attribute.Key("ledger.operation")
	AttrLedgerTx    = attribute.Key("ledger.tx_hash")
	AttrResultCount = attribute.Key("result.count")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns the span
// already in ctx (a no-op span when there is none).
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic; details are kept in the span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
