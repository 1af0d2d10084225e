// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"info level", slog.LevelInfo, `"level":"info"`},
		{"warn level", slog.LevelWarn, `"level":"warn"`},
		{"error level", slog.LevelError, `"level":"error"`},
		{"above error", slog.LevelError + 4, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewSlogHandler(zerolog.New(&buf))

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, tt.wantLevel) {
				t.Errorf("Handle() output missing %s: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, "service restarted") {
				t.Errorf("Handle() output missing message: %s", output)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	handler := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))

	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true for a warn logger")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false for a warn logger")
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf)))

	logger.With("supervisor", "root").
		WithGroup("event").
		WithGroup("service").
		Info("service failed",
			slog.String("name", "http-server"),
			slog.Int("restarts", 2),
			slog.Bool("terminal", false),
			slog.Duration("backoff", 15*time.Second),
			slog.Any("err", errors.New("listen failed")),
			slog.Group("tree", slog.String("layer", "api")),
		)

	output := buf.String()
	for _, want := range []string{
		`"supervisor":"root"`,
		`"event.service.name":"http-server"`,
		`"event.service.restarts":2`,
		`"event.service.terminal":false`,
		`"event.service.err":"listen failed"`,
		`"event.service.tree.layer":"api"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	handler := NewSlogHandler(zerolog.Nop())
	if handler.WithGroup("") != handler {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if handler.WithAttrs(nil) != handler {
		t.Error("WithAttrs(nil) should return the same handler")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		if got := slogToZerologLevel(tt.level); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))

	NewSlogLogger().Warn("supervisor backoff")

	output := buf.String()
	if !strings.Contains(output, `"component":"supervisor"`) || !strings.Contains(output, "supervisor backoff") {
		t.Errorf("unexpected output: %s", output)
	}
}
