package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "warn message" || entries[0]["level"] != "warn" {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["msg"] != "error message" || entries[1]["level"] != "error" {
		t.Errorf("unexpected second entry: %v", entries[1])
	}
}

func TestLogger_FieldsAndRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Info(context.Background(), "connecting",
		F("addr", "localhost:6379"),
		F("connection_string", "localhost:6379,password=hunter2"),
		F("value", `{"card":"4111"}`),
		F("error", errors.New("boom")),
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["addr"] != "localhost:6379" {
		t.Errorf("addr = %v", e["addr"])
	}
	if e["connection_string"] != "[REDACTED]" {
		t.Errorf("connection_string not redacted: %v", e["connection_string"])
	}
	if e["value"] != "[REDACTED]" {
		t.Errorf("value not redacted: %v", e["value"])
	}
	if e["error"] != "boom" {
		t.Errorf("error = %v", e["error"])
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("missing timestamp")
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Error("password leaked into log output")
	}
}

func TestLogger_WithOp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).WithOp(OpMeta{
		Op:          "get",
		Backend:     "redis",
		Key:         "users",
		Application: "billing",
	})

	logger.Info(context.Background(), "hello")

	e := decodeLines(t, &buf)[0]
	want := map[string]string{
		"cache.op":          "get",
		"cache.backend":     "redis",
		"cache.key":         "users",
		"cache.application": "billing",
	}
	for k, v := range want {
		if e[k] != v {
			t.Errorf("%s = %v, want %q", k, e[k], v)
		}
	}
}

func TestLogger_TraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.Info(ctx, "inside span")
	span.End()

	e := decodeLines(t, &buf)[0]
	if e["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v, want %s", e["trace_id"], span.SpanContext().TraceID())
	}
	if e["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("span_id = %v", e["span_id"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if tt.in != "" && tt.in != "verbose" && ParseLogLevel(tt.in).String() != tt.in {
			t.Errorf("String() round trip failed for %q", tt.in)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	ctx := context.Background()
	logger.Info(ctx, "discarded", F("k", "v"))
	logger.WithOp(OpMeta{Op: "set"}).Error(ctx, "discarded")
}
