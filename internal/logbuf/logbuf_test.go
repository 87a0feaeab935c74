package logbuf

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestBufferWriteAndQuery(t *testing.T) {
	buf := New(5)
	now := time.Now()

	for i := 0; i < 3; i++ {
		buf.Write(Entry{Time: now.Add(time.Duration(i) * time.Second), Level: "INFO", Message: "msg"})
	}

	if buf.Len() != 3 {
		t.Fatalf("expected len 3, got %d", buf.Len())
	}
	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestBufferRingOverwrite(t *testing.T) {
	buf := New(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		buf.Write(Entry{
			Time:    now.Add(time.Duration(i) * time.Second),
			Level:   "INFO",
			Message: "msg",
			Attrs:   map[string]any{"i": i},
		})
	}

	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (ring size), got %d", len(entries))
	}
	// Oldest two were evicted; the window is 2, 3, 4 oldest first.
	if entries[0].Attrs["i"] != 2 {
		t.Fatalf("expected first entry i=2, got %v", entries[0].Attrs["i"])
	}
	if entries[2].Attrs["i"] != 4 {
		t.Fatalf("expected last entry i=4, got %v", entries[2].Attrs["i"])
	}
}

func TestBufferQueryLevel(t *testing.T) {
	buf := New(10)
	now := time.Now()

	buf.Write(Entry{Time: now, Level: "DEBUG", Message: "debug"})
	buf.Write(Entry{Time: now, Level: "INFO", Message: "info"})
	buf.Write(Entry{Time: now, Level: "WARN", Message: "warn"})
	buf.Write(Entry{Time: now, Level: "ERROR", Message: "error"})

	entries := buf.Query(slog.LevelWarn, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at WARN+, got %d", len(entries))
	}
	if entries[0].Message != "warn" || entries[1].Message != "error" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestBufferQueryLimit(t *testing.T) {
	buf := New(10)
	now := time.Now()

	for i := 0; i < 8; i++ {
		buf.Write(Entry{
			Time:    now.Add(time.Duration(i) * time.Second),
			Level:   "INFO",
			Message: "msg",
			Attrs:   map[string]any{"i": i},
		})
	}

	entries := buf.Query(slog.LevelDebug, 3)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries with limit, got %d", len(entries))
	}
	// Limit keeps the most recent matches.
	if entries[0].Attrs["i"] != 5 || entries[2].Attrs["i"] != 7 {
		t.Fatalf("expected window 5..7, got %v", entries)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestHandlerCaptures(t *testing.T) {
	buf := New(10)
	handler := NewHandler(slog.NewTextHandler(io.Discard, nil), buf)
	logger := slog.New(handler)

	logger.Info("hello", "key", "value")
	logger.Warn("warning")

	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "hello" {
		t.Fatalf("expected 'hello', got %q", entries[0].Message)
	}
	if entries[0].Attrs["key"] != "value" {
		t.Fatalf("expected attr key=value, got %v", entries[0].Attrs)
	}
	if entries[1].Level != "WARN" {
		t.Fatalf("expected WARN level, got %q", entries[1].Level)
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	buf := New(10)
	handler := NewHandler(slog.NewTextHandler(io.Discard, nil), buf)
	logger := slog.New(handler).With("component", "test")

	logger.Info("msg")

	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Attrs["component"] != "test" {
		t.Fatalf("expected component=test, got %v", entries[0].Attrs)
	}
}

func TestHandlerWithGroup(t *testing.T) {
	buf := New(10)
	handler := NewHandler(slog.NewTextHandler(io.Discard, nil), buf)
	logger := slog.New(handler).WithGroup("http").WithGroup("req")

	logger.Info("msg", "id", "42")

	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Attrs["http.req.id"] != "42" {
		t.Fatalf("expected http.req.id=42, got %v", entries[0].Attrs)
	}
}

func TestHandlerErrorAttr(t *testing.T) {
	buf := New(10)
	handler := NewHandler(slog.NewTextHandler(io.Discard, nil), buf)
	logger := slog.New(handler)

	logger.Error("failed", "error", io.ErrUnexpectedEOF)

	entries := buf.Query(slog.LevelError, 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Attrs["error"] != "unexpected EOF" {
		t.Fatalf("expected flattened error string, got %v", entries[0].Attrs)
	}
}

func TestHandlerCapturesBelowInnerLevel(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn})
	handler := NewHandler(inner, buf)
	logger := slog.New(handler)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")

	if !handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected handler to accept all levels")
	}
	entries := buf.Query(slog.LevelDebug, 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries in buffer, got %d", len(entries))
	}
}
