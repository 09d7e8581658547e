package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/agilechain/chainsync/sync"

	// LedgerMetricsMeterName is the name used for the ledger write metrics meter
	LedgerMetricsMeterName = "github.com/agilechain/chainsync/ledger"
)

// SyncMetrics holds the OpenTelemetry instruments for reconciliation metrics
type SyncMetrics struct {
	reconcileDuration metric.Float64Histogram
	syncRuns          metric.Int64Counter
	breakerFailures   metric.Int64Gauge
	breakerResets     metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	reconcileDuration, err := meter.Float64Histogram(
		"chainsync_reconcile_duration_seconds",
		metric.WithDescription("Duration of domain reconciliations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	syncRuns, err := meter.Int64Counter(
		"chainsync_sync_runs_total",
		metric.WithDescription("Number of reconciliations of all domains, by result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	breakerFailures, err := meter.Int64Gauge(
		"chainsync_circuit_breaker_failures",
		metric.WithDescription("Circuit breaker occurrences counted since the last successful reset"),
		metric.WithUnit("{occurrence}"),
	)
	if err != nil {
		return nil, err
	}

	breakerResets, err := meter.Int64Counter(
		"chainsync_circuit_breaker_resets_total",
		metric.WithDescription("Number of ledger network reset attempts"),
		metric.WithUnit("{reset}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		reconcileDuration: reconcileDuration,
		syncRuns:          syncRuns,
		breakerFailures:   breakerFailures,
		breakerResets:     breakerResets,
	}, nil
}

// RecordReconcile records the duration and result of one domain reconciliation
func (m *SyncMetrics) RecordReconcile(ctx context.Context, domain, reason string, duration time.Duration, ok bool) {
	if m == nil || m.reconcileDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("reason", reason),
		attribute.Bool("success", ok),
	}
	m.reconcileDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSyncRun counts one reconciliation of all domains. result is "ok", "failed" or "dropped".
func (m *SyncMetrics) RecordSyncRun(ctx context.Context, forced bool, result string) {
	if m == nil || m.syncRuns == nil {
		return
	}

	m.syncRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("forced", forced),
		attribute.String("result", result),
	))
}

// RecordBreakerFailures records the current circuit breaker occurrence count
func (m *SyncMetrics) RecordBreakerFailures(ctx context.Context, count int) {
	if m == nil || m.breakerFailures == nil {
		return
	}
	m.breakerFailures.Record(ctx, int64(count))
}

// RecordBreakerReset counts one network reset attempt
func (m *SyncMetrics) RecordBreakerReset(ctx context.Context, success bool) {
	if m == nil || m.breakerResets == nil {
		return
	}
	m.breakerResets.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// LedgerMetrics holds the OpenTelemetry instruments for ledger write metrics
type LedgerMetrics struct {
	writes        metric.Int64Counter
	writeDuration metric.Float64Histogram
}

// NewLedgerMetrics creates a new LedgerMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewLedgerMetrics(provider metric.MeterProvider) (*LedgerMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(LedgerMetricsMeterName)

	writes, err := meter.Int64Counter(
		"chainsync_ledger_writes_total",
		metric.WithDescription("Number of ledger write operations, by domain and result"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	writeDuration, err := meter.Float64Histogram(
		"chainsync_ledger_write_duration_seconds",
		metric.WithDescription("Duration of ledger write operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{writes: writes, writeDuration: writeDuration}, nil
}

// RecordWrite records one ledger write. result is "success", "unsuccessful" or "error".
func (m *LedgerMetrics) RecordWrite(ctx context.Context, domain, result string, duration time.Duration) {
	if m == nil || m.writes == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("result", result),
	)
	m.writes.Add(ctx, 1, attrs)
	m.writeDuration.Record(ctx, duration.Seconds(), attrs)
}
