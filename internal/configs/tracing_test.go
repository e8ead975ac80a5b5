package config

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLogExporterWritesSpans(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	exp := &logExporter{logger: logger.WithField("component", "tracing")}

	start := time.Now()
	spans := tracetest.SpanStubs{{
		Name:       "GET /api/teams",
		StartTime:  start,
		EndTime:    start.Add(15 * time.Millisecond),
		Attributes: []attribute.KeyValue{attribute.Int("http.status_code", 200)},
	}}.Snapshots()

	if err := exp.ExportSpans(context.Background(), spans); err != nil {
		t.Fatalf("export: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "GET /api/teams" {
		t.Fatalf("expected span log entry, got %+v", entry)
	}
	if entry.Data["http.status_code"] != "200" {
		t.Errorf("expected status attribute, got %v", entry.Data["http.status_code"])
	}
	if entry.Data["duration_ms"] != float64(15) {
		t.Errorf("expected 15ms duration, got %v", entry.Data["duration_ms"])
	}
}

func TestLogExporterSkipsBelowDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	exp := &logExporter{logger: logger.WithField("component", "tracing")}

	spans := tracetest.SpanStubs{{Name: "ignored"}}.Snapshots()
	if err := exp.ExportSpans(context.Background(), spans); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("expected no entries at info level, got %d", len(hook.AllEntries()))
	}
}
