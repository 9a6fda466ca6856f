package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Strob0t/VerifyGate/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc"}
	l, closer := New(cfg)
	defer closer.Close()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewAsync(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc", Async: true}
	l, closer := New(cfg)
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	closer.Close()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input).String()
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	if got := RequestID(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("expected req-123, got %q", got)
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggerAddsServiceAndRequestID(t *testing.T) {
	for _, async := range []bool{false, true} {
		var buf bytes.Buffer
		l, closer := NewWithWriter(config.Logging{Level: "info", Service: "verifygate", Async: async}, &buf)

		ctx := WithRequestID(context.Background(), "req-abc")
		l.InfoContext(ctx, "enqueued", "repo", "git@host:x.git")
		closer.Close()

		entry := decodeLine(t, &buf)
		if entry["service"] != "verifygate" {
			t.Errorf("async=%v: service = %v", async, entry["service"])
		}
		if entry["request_id"] != "req-abc" {
			t.Errorf("async=%v: request_id = %v", async, entry["request_id"])
		}
		if entry["repo"] != "git@host:x.git" {
			t.Errorf("async=%v: repo = %v", async, entry["repo"])
		}
	}
}

func TestLoggerOmitsEmptyRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "info", Service: "verifygate"}, &buf)
	l.Info("starting")
	closer.Close()

	if _, ok := decodeLine(t, &buf)["request_id"]; ok {
		t.Error("request_id should be absent without a request context")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "warn", Service: "verifygate"}, &buf)
	l.Info("hidden")
	closer.Close()

	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}
