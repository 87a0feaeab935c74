// Package local exposes the bot on a plain HTTP endpoint, useful for
// development and scripted testing without a chat platform account.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gamedex-io/gamedex/internal/connector"
)

// Config holds local connector configuration.
type Config struct {
	Host string
	Port int
	// Token guards the endpoint when set; clients pass it as a Bearer
	// Authorization header. Empty means open, for local development.
	Token string
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse carries the reply. SessionID lets the caller keep the
// conversation going across requests.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Connector implements connector.Connector over HTTP.
type Connector struct {
	config    Config
	responder connector.Responder
	logger    *slog.Logger
	srv       *http.Server
}

// New creates a local HTTP connector.
func New(cfg Config, responder connector.Responder, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Connector{
		config:    cfg,
		responder: responder,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", c.handleChat)

	c.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return c
}

func (c *Connector) Name() string { return "local" }

// Start serves HTTP until ctx is cancelled.
func (c *Connector) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.srv.Shutdown(shutdownCtx)
	}()

	c.logger.Info("local connector started", "addr", c.srv.Addr)
	if err := c.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("local connector: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (c *Connector) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.srv.Shutdown(shutdownCtx)
}

// Handler returns the HTTP handler, used by tests.
func (c *Connector) Handler() http.Handler { return c.srv.Handler }

func (c *Connector) handleChat(w http.ResponseWriter, r *http.Request) {
	if !c.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	session := req.SessionID
	if session == "" {
		session = "local:" + uuid.NewString()
	}

	reply := c.responder.HandleMessage(r.Context(), session, req.Message)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{SessionID: session, Reply: reply})
}

func (c *Connector) authorized(r *http.Request) bool {
	if c.config.Token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+c.config.Token
}
