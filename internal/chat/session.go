// Package chat is the conversation engine of the GameDex front-end: it
// keeps per-session history, routes model output through the tool
// server, and renders catalog results for humans.
package chat

import (
	"sync"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// DefaultHistoryLimit is how many messages a session keeps by default.
const DefaultHistoryLimit = 20

// Store keeps per-session conversation history. Implementations must be
// safe for concurrent use: connectors handle updates from goroutines.
type Store interface {
	History(sessionID string) []protocol.ChatMessage
	Append(sessionID string, msg protocol.ChatMessage)
	Reset(sessionID string)
}

// MemoryStore is an in-memory Store with a bounded history window per
// session. When the window is full the oldest message is dropped.
type MemoryStore struct {
	mu       sync.Mutex
	limit    int
	sessions map[string][]protocol.ChatMessage
}

// NewMemoryStore creates a store keeping up to limit messages per
// session. limit <= 0 selects DefaultHistoryLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryStore{
		limit:    limit,
		sessions: make(map[string][]protocol.ChatMessage),
	}
}

// History returns a copy of the session's messages, oldest first.
func (s *MemoryStore) History(sessionID string) []protocol.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	out := make([]protocol.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds a message to the session, evicting the oldest when the
// window is full.
func (s *MemoryStore) Append(sessionID string, msg protocol.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.sessions[sessionID], msg)
	if len(msgs) > s.limit {
		msgs = msgs[len(msgs)-s.limit:]
	}
	s.sessions[sessionID] = msgs
}

// Reset drops the session's history.
func (s *MemoryStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
