package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestInit_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("hidden")
	Warn().Str("track_id", "t1").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, `"track_id":"t1"`) || !strings.Contains(out, "shown") {
		t.Fatalf("warn message missing: %s", out)
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	t.Run("uses the logger attached to the context", func(t *testing.T) {
		buf.Reset()
		l := With().Str("request_id", "req-1").Logger()
		ctx := l.WithContext(context.Background())

		Ctx(ctx).Warn().Msg("attached")

		if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
			t.Fatalf("request_id missing: %s", buf.String())
		}
	})

	t.Run("falls back to the global logger", func(t *testing.T) {
		buf.Reset()
		Ctx(context.Background()).Warn().Msg("bare")

		out := buf.String()
		if !strings.Contains(out, "bare") {
			t.Fatalf("message missing: %s", out)
		}
		if strings.Contains(out, "request_id") {
			t.Fatalf("unexpected request_id: %s", out)
		}
	})
}
