package board

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return exporter, func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	}
}

func attributesToMap(spans tracetest.SpanStubs) map[string]any {
	attrs := map[string]any{}
	for _, span := range spans {
		for _, kv := range span.Attributes {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return attrs
}

func TestBatchMetricsRecordsSpanAndLog(t *testing.T) {
	exporter, restore := setupTestTracer(t)
	defer restore()

	logger, hook := test.NewNullLogger()
	metrics, _ := newBatchMetrics(context.Background(), logger, "color")
	metrics.SetReceived(3)
	metrics.AddFailed()
	metrics.SetApplied(2)
	metrics.Log(nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != batchSpanName {
		t.Fatalf("unexpected span name: %s", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Ok {
		t.Fatalf("expected span status Ok, got %v", spans[0].Status.Code)
	}
	attrs := attributesToMap(spans)
	if attrs["kanban.batch.event"] != "color" {
		t.Fatalf("unexpected event attribute: %#v", attrs["kanban.batch.event"])
	}
	if attrs["kanban.batch.received"] != int64(3) {
		t.Fatalf("unexpected received attribute: %#v", attrs["kanban.batch.received"])
	}
	if attrs["kanban.batch.applied"] != int64(2) {
		t.Fatalf("unexpected applied attribute: %#v", attrs["kanban.batch.applied"])
	}
	if attrs["kanban.batch.failed"] != int64(1) {
		t.Fatalf("unexpected failed attribute: %#v", attrs["kanban.batch.failed"])
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("no log entry emitted")
	}
	if entry.Message != "board.batch" {
		t.Fatalf("unexpected message: %s", entry.Message)
	}
	if entry.Level != log.InfoLevel {
		t.Fatalf("unexpected level: %v", entry.Level)
	}
	if entry.Data["event"] != "color" || entry.Data["applied"] != 2 || entry.Data["failed"] != 1 {
		t.Fatalf("unexpected fields: %#v", entry.Data)
	}
}

func TestBatchMetricsErrorSetsSpanStatus(t *testing.T) {
	exporter, restore := setupTestTracer(t)
	defer restore()

	logger, _ := test.NewNullLogger()
	metrics, _ := newBatchMetrics(context.Background(), logger, "rename")
	metrics.Log(errUnknownEvent)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Fatalf("expected span status Error, got %v", spans[0].Status.Code)
	}
	if spans[0].Status.Description != errUnknownEvent.Error() {
		t.Fatalf("unexpected status description: %q", spans[0].Status.Description)
	}
}
