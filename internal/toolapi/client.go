// Package toolapi is the HTTP client for a GameDex tool server. The
// chat front-end and the CLI both talk to the server through it.
package toolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gamedex-io/gamedex/internal/logbuf"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// ServerInfo is the banner returned by the tool server root endpoint.
type ServerInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Client talks to a tool server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the tool server at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Info fetches the server banner.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.getJSON(ctx, "/", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Tools fetches the published tool catalog. Unlike CallTool this fails
// hard: a front-end cannot start without knowing the catalog.
func (c *Client) Tools(ctx context.Context) ([]protocol.ToolDescriptor, error) {
	var descs []protocol.ToolDescriptor
	if err := c.getJSON(ctx, "/tools", &descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// CallTool invokes a tool by name. Transport failures degrade into a
// failed envelope instead of an error so callers handle exactly one
// result shape.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) protocol.ToolResult {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(protocol.CallToolRequest{Tool: name, Arguments: args})
	if err != nil {
		return protocol.ErrResult(fmt.Sprintf("tool server request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call_tool", bytes.NewReader(body))
	if err != nil {
		return protocol.ErrResult(fmt.Sprintf("tool server request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		msg := fmt.Sprintf("tool server unreachable: %v", err)
		c.logger.Warn("tool call failed", "tool", name, "error", msg)
		return protocol.ErrResult(msg)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("tool server unreachable: unexpected status %d", resp.StatusCode)
		c.logger.Warn("tool call failed", "tool", name, "error", msg)
		return protocol.ErrResult(msg)
	}

	var res protocol.ToolResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		msg := fmt.Sprintf("invalid response from tool server: %v", err)
		c.logger.Warn("tool call failed", "tool", name, "error", msg)
		return protocol.ErrResult(msg)
	}
	if !res.OK {
		c.logger.Warn("tool call rejected", "tool", name, "error", res.Error)
	}
	return res
}

// Logs fetches recent server log entries. level and limit are optional:
// an empty level means everything, limit <= 0 uses the server default.
func (c *Client) Logs(ctx context.Context, level string, limit int) ([]logbuf.Entry, error) {
	q := url.Values{}
	if level != "" {
		q.Set("level", level)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []logbuf.Entry
	if err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("tool server: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tool server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tool server: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tool server: parse response: %w", err)
	}
	return nil
}
