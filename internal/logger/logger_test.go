package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")
	l.Debug("hidden")
	l.Info("analysis complete", "proc", "CalcRevenue")

	line := strings.TrimSpace(buf.String())
	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", line, err)
	}
	if got["proc"] != "CalcRevenue" {
		t.Errorf("unexpected attrs: %v", got)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("connecting", "dialect", "sqlserver")

	if !strings.Contains(buf.String(), "dialect=sqlserver") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "text").With("request_id", "12345")

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=12345") {
		t.Errorf("expected request-scoped attrs, got %q", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger for empty context")
	}
}
