package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gamedex-io/gamedex/internal/logbuf"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

const serverVersion = "1.0.0"

// Dispatcher executes tool invocations and folds every outcome into the
// result envelope.
type Dispatcher interface {
	Invoke(ctx context.Context, name string, args map[string]any) protocol.ToolResult
}

// ToolLister exposes the published tool catalog.
type ToolLister interface {
	Descriptors() []protocol.ToolDescriptor
}

// LogQuerier abstracts log entry querying to avoid coupling to logbuf
// directly.
type LogQuerier interface {
	Query(minLevel slog.Level, limit int) []logbuf.Entry
}

// Config holds tool server configuration.
type Config struct {
	Host string
	Port int
}

// Server is the GameDex tool server: it publishes the tool catalog and
// executes invocations over HTTP.
type Server struct {
	disp   Dispatcher
	tools  ToolLister
	cfg    Config
	logger *slog.Logger
	logs   LogQuerier
	srv    *http.Server
}

// NewServer creates a new tool server. logs may be nil.
func NewServer(disp Dispatcher, tools ToolLister, cfg Config, logger *slog.Logger, logs LogQuerier) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		disp:   disp,
		tools:  tools,
		cfg:    cfg,
		logger: logger,
		logs:   logs,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /call_tool", s.handleCallTool)
	mux.HandleFunc("GET /logs", s.handleGetLogs)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.corsMiddleware(s.requestIDMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("tool server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("tool server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// --- Middleware ---

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("http request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "GameDex tool server",
		"version": serverVersion,
	})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tools.Descriptors())
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	res := s.disp.Invoke(r.Context(), req.Tool, req.Arguments)
	if !res.OK {
		s.logger.Debug("tool call failed", "tool", req.Tool, "error", res.Error)
	}
	// Business failures still travel as HTTP 200; only a malformed body
	// is a transport-level error.
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		writeJSON(w, http.StatusOK, []logbuf.Entry{})
		return
	}

	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	minLevel := slog.LevelDebug
	if lvl := r.URL.Query().Get("level"); lvl != "" {
		minLevel = logbuf.ParseLevel(lvl)
	}

	entries := s.logs.Query(minLevel, limit)
	if entries == nil {
		entries = []logbuf.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
