package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSourceHandler_OnlySelectedLevels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(newSourceHandler(base, slog.LevelError))

	l.Info("quota checked")
	assert.NotContains(t, buf.String(), "source=")

	buf.Reset()
	l.Error("quota store unreachable")
	assert.Contains(t, buf.String(), "source=")
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(newSourceHandler(base, slog.LevelError)).With("user_id", 42).WithGroup("admission")

	l.Info("decision", "reason", "rate_limited")

	out := buf.String()
	assert.Contains(t, out, "user_id=42")
	assert.True(t, strings.Contains(out, "admission.reason=rate_limited"), out)
}

func TestSourceHandler_RespectsBaseLevel(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	h := newSourceHandler(base, slog.LevelError)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger().Named("test").With("k", "v")
	assert.NotPanics(t, func() {
		l.Infow("ignored", "a", 1)
		l.Errorw("ignored", "error", assert.AnError)
	})
}
