package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelInfo, ComponentCoordinator)
	l.Info("hello", FieldEntryID, 3)
	out := buf.String()
	if !strings.Contains(out, "component=coordinator") || !strings.Contains(out, "entry_id=3") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestStructuredLoggerEntryAndError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(NewWriter(&buf, slog.LevelInfo, ComponentCoordinator))
	sl.LogEntryAdded(context.Background(), "expense", 2, "Rent", "300")
	sl.LogError(context.Background(), "publish failed", errors.New("boom"), OpPublish, nil)
	out := buf.String()
	for _, want := range []string{"Entry added", "category=expense", "entry_id=2", "error=boom", "operation=publish"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := NewWriter(&buf, slog.LevelInfo, ComponentHTTP)
	var gotID string
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = RequestIDFromContext(r.Context())
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if gotID != "req_1" {
		t.Fatalf("request id = %q", gotID)
	}
	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Fatalf("logger not enriched: %s", buf.String())
	}
}
