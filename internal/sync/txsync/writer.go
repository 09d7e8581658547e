package txsync

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/otel"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/telemetry"
)

// TracerName is the name used for the ledger write tracer
const TracerName = "github.com/agilechain/chainsync/ledger"

// Writer decorates a ledger.Writer so every write runs between the reconciliation hooks
// of its domain
type Writer struct {
	next    ledger.Writer
	wrapper *Wrapper
	metrics *telemetry.LedgerMetrics
	tracer  trace.Tracer
}

var _ ledger.Writer = (*Writer)(nil)

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithLedgerMetrics records every write
func WithLedgerMetrics(m *telemetry.LedgerMetrics) WriterOption {
	return func(w *Writer) {
		w.metrics = m
	}
}

// WithTracer sets the tracer used for write spans
func WithTracer(tracer trace.Tracer) WriterOption {
	return func(w *Writer) {
		w.tracer = tracer
	}
}

// NewWriter wraps next with the given hooks
func NewWriter(next ledger.Writer, hooks Hooks, opts ...WriterOption) *Writer {
	w := &Writer{next: next, wrapper: NewWrapper(hooks)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) CreateSprint(ctx context.Context, in ledger.SprintInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainSprints, ledger.MethodSprintCreate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.CreateSprint(ctx, in)
	})
}

func (w *Writer) UpdateSprint(ctx context.Context, id int64, in ledger.SprintInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainSprints, ledger.MethodSprintUpdate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.UpdateSprint(ctx, id, in)
	})
}

func (w *Writer) DeleteSprint(ctx context.Context, id int64) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainSprints, ledger.MethodSprintDelete, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.DeleteSprint(ctx, id)
	})
}

func (w *Writer) CreateTask(ctx context.Context, in ledger.TaskInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainTasks, ledger.MethodTaskCreate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.CreateTask(ctx, in)
	})
}

func (w *Writer) UpdateTask(ctx context.Context, id int64, in ledger.TaskInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainTasks, ledger.MethodTaskUpdate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.UpdateTask(ctx, id, in)
	})
}

func (w *Writer) DeleteTask(ctx context.Context, id int64) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainTasks, ledger.MethodTaskDelete, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.DeleteTask(ctx, id)
	})
}

func (w *Writer) AssignTask(ctx context.Context, id int64, assignee string) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainTasks, ledger.MethodTaskAssign, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.AssignTask(ctx, id, assignee)
	})
}

func (w *Writer) RegisterTeam(ctx context.Context, in ledger.TeamInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainTeam, ledger.MethodTeamRegister, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.RegisterTeam(ctx, in)
	})
}

func (w *Writer) CreateBacklogItem(ctx context.Context, in ledger.BacklogItemInput) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainBacklog, ledger.MethodBacklogCreate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.CreateBacklogItem(ctx, in)
	})
}

func (w *Writer) UpdateBacklogItem(
	ctx context.Context, id int64, in ledger.BacklogItemInput,
) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainBacklog, ledger.MethodBacklogUpdate, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.UpdateBacklogItem(ctx, id, in)
	})
}

func (w *Writer) DeleteBacklogItem(ctx context.Context, id int64) (*ledger.WriteResult, error) {
	return w.write(ctx, pkgsync.DomainBacklog, ledger.MethodBacklogDelete, func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.next.DeleteBacklogItem(ctx, id)
	})
}

func (w *Writer) write(ctx context.Context, domain pkgsync.Domain, method string, op Operation) (*ledger.WriteResult, error) {
	ctx, span := otel.StartSpan(ctx, w.tracer, "ledger.write",
		trace.WithAttributes(
			otel.AttrSyncDomain.String(domain.String()),
			otel.AttrLedgerOp.String(method),
		))
	defer span.End()

	start := time.Now()
	result, err := w.wrapper.ExecuteWithSync(ctx, domain, op)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		otel.RecordError(span, err)
	case result == nil || !result.Success:
		outcome = "unsuccessful"
	default:
		span.SetAttributes(otel.AttrLedgerTx.String(result.TxHash))
	}
	w.metrics.RecordWrite(ctx, domain.String(), outcome, time.Since(start))

	return result, err
}
