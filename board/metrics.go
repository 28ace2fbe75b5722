package board

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	batchTracerName = "github.com/0n0123/kanban/board"
	batchSpanName   = "kanban.board.batch"
)

var errUnknownEvent = errors.New("unknown event")

// batchMetrics instruments the processing of one inbound batch: an otel
// span plus a structured log line when the batch completes.
type batchMetrics struct {
	logger   *log.Logger
	span     trace.Span
	start    time.Time
	event    string
	received int
	applied  int
	failed   int
}

func newBatchMetrics(ctx context.Context, logger *log.Logger, event string) (*batchMetrics, context.Context) {
	ctx, span := otel.Tracer(batchTracerName).Start(ctx, batchSpanName)
	return &batchMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
		event:  event,
	}, ctx
}

func (m *batchMetrics) SetReceived(count int) {
	if count < 0 {
		count = 0
	}
	m.received = count
}

func (m *batchMetrics) SetApplied(count int) {
	if count < 0 {
		count = 0
	}
	m.applied = count
}

func (m *batchMetrics) AddFailed() {
	m.failed++
}

// Log ends the span and emits the batch summary. err is the batch-level
// failure, if any; per-item failures are only counted here, having already
// been logged where they occurred.
func (m *batchMetrics) Log(err error) {
	if m == nil || m.span == nil {
		return
	}

	totalMs := float64(time.Since(m.start)) / float64(time.Millisecond)
	m.span.SetAttributes(
		attribute.String("kanban.batch.event", m.event),
		attribute.Int("kanban.batch.received", m.received),
		attribute.Int("kanban.batch.applied", m.applied),
		attribute.Int("kanban.batch.failed", m.failed),
		attribute.Float64("kanban.batch.total_ms", totalMs),
	)
	if err != nil {
		m.span.SetStatus(codes.Error, err.Error())
	} else {
		m.span.SetStatus(codes.Ok, "")
	}
	m.span.End()

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event":    m.event,
		"received": m.received,
		"applied":  m.applied,
		"failed":   m.failed,
		"total_ms": totalMs,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Info("board.batch")
}
