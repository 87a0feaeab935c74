// Package logbuf keeps a bounded in-memory window of recent log entries
// so the HTTP surface can expose them without touching disk.
package logbuf

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is a single log entry captured from slog.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Buffer is a thread-safe ring of the most recent entries. Once full,
// each write evicts the oldest entry.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	head    int // index of the oldest entry
	n       int // number of live entries
}

// New creates a ring buffer that holds up to size entries.
func New(size int) *Buffer {
	return &Buffer{entries: make([]Entry, size)}
}

// Write appends an entry, evicting the oldest when the ring is full.
func (b *Buffer) Write(e Entry) {
	b.mu.Lock()
	size := len(b.entries)
	b.entries[(b.head+b.n)%size] = e
	if b.n < size {
		b.n++
	} else {
		b.head = (b.head + 1) % size
	}
	b.mu.Unlock()
}

// Len returns the number of live entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Query returns entries at or above minLevel, oldest first. If limit > 0
// only the most recent limit matches are returned.
func (b *Buffer) Query(minLevel slog.Level, limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var result []Entry
	for i := 0; i < b.n; i++ {
		e := b.entries[(b.head+i)%len(b.entries)]
		if ParseLevel(e.Level) < minLevel {
			continue
		}
		result = append(result, e)
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}

// ParseLevel converts a level name to slog.Level. Unknown names map to
// INFO so a bad query parameter degrades instead of failing.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
