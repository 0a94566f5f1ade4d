package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.raw); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNewLoggerNeverNil(t *testing.T) {
	if NewLogger(Config{}) == nil {
		t.Fatal("logger is nil")
	}
	if NewLogger(Config{Level: "debug", Format: "json", Service: "svc", Version: "1.0"}) == nil {
		t.Fatal("configured logger is nil")
	}
}

func TestContextRoundTrip(t *testing.T) {
	fallback := NewLogger(Config{})
	scoped := NewLogger(Config{Service: "scoped"})

	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatal("scoped logger not returned")
	}
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("fallback not returned for bare context")
	}
	if got := FromContext(nil, fallback); got != fallback { //nolint:staticcheck
		t.Fatal("nil context must yield the fallback")
	}
}

func TestNilLoggerHelpersAreSafe(t *testing.T) {
	Info(nil, "msg")
	Warn(nil, "msg")
	Error(nil, "msg", nil)
}
