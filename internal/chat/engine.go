package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gamedex-io/gamedex/internal/provider"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

const (
	replyMaxTokens   = 500
	replyTemperature = 0.7
)

// Welcome greets new sessions; /start and /help both show it.
const Welcome = `👋 Hi! I'm GameDex, your game catalog assistant.

I can:
🎮 find games by name, genre, platform or price
⭐ show you our featured picks
🔍 suggest games similar to one you like
➕ add a new game to the catalog
🧮 do quick math

Try something like:
• "show me all games"
• "find witcher"
• "RPG games under 30 dollars"
• "what's similar to Hades?"

Plain language works fine 😊`

// ToolClient is the slice of the tool server API the engine needs.
type ToolClient interface {
	Tools(ctx context.Context) ([]protocol.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) protocol.ToolResult
}

// Engine turns user messages into replies. Each message runs through
// the model once; when the model answers with a tool call the engine
// invokes the tool server and runs a second model pass to phrase the
// result. LoadTools must be called before the first HandleMessage.
type Engine struct {
	llm      provider.Provider
	tools    ToolClient
	sessions Store
	logger   *slog.Logger

	// mu guards system; LoadTools can run from a background refresh
	// while messages are in flight.
	mu     sync.RWMutex
	system string
}

// NewEngine wires an engine. A nil logger falls back to slog.Default.
func NewEngine(llm provider.Provider, tools ToolClient, sessions Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		llm:      llm,
		tools:    tools,
		sessions: sessions,
		logger:   logger,
		system:   buildSystemPrompt(nil),
	}
}

// LoadTools fetches the tool catalog and rebuilds the system prompt
// around it. Safe to call again at runtime to pick up catalog changes;
// on error the engine keeps whatever prompt it already has, so a failed
// refresh never degrades a working catalog.
func (e *Engine) LoadTools(ctx context.Context) error {
	descs, err := e.tools.Tools(ctx)
	if err != nil {
		return fmt.Errorf("fetch tool catalog: %w", err)
	}
	e.mu.Lock()
	e.system = buildSystemPrompt(descs)
	e.mu.Unlock()
	e.logger.Info("tool catalog loaded", "tools", len(descs))
	return nil
}

// HandleMessage produces the reply for one user message. It never
// returns an error: model and tool failures turn into apologetic text,
// which is all a chat surface can show anyway.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) string {
	switch strings.TrimSpace(text) {
	case "/start", "/help":
		return Welcome
	case "/new":
		e.sessions.Reset(sessionID)
		return "Fresh start! What are you looking for?"
	}

	e.sessions.Append(sessionID, protocol.ChatMessage{Role: "user", Content: text})

	first, err := e.complete(ctx, sessionID)
	if err != nil {
		e.logger.Error("model call failed", "error", err)
		return "Sorry, I could not reach the language model. Please try again."
	}

	call, ok := ParseToolCall(first)
	if !ok {
		e.sessions.Append(sessionID, protocol.ChatMessage{Role: "assistant", Content: first})
		return first
	}

	e.logger.Info("tool call requested", "session", sessionID, "tool", call.Tool)
	res := e.tools.CallTool(ctx, call.Tool, call.Arguments)
	if !res.OK {
		reply := "Something went wrong: " + res.Error
		e.sessions.Append(sessionID, protocol.ChatMessage{Role: "assistant", Content: reply})
		return reply
	}

	formatted := FormatResult(res.Result)
	e.sessions.Append(sessionID, protocol.ChatMessage{Role: "assistant", Content: formatted})

	followup := fmt.Sprintf("The user asked: %s\n\nTool result:\n%s\n\nAnswer the user in a friendly tone based on this result. Do not call any more tools.", text, formatted)
	reply, err := e.complete(ctx, sessionID, protocol.ChatMessage{Role: "user", Content: followup})
	if err != nil {
		e.logger.Warn("follow-up model call failed, replying with the raw result", "error", err)
		return formatted
	}
	e.sessions.Append(sessionID, protocol.ChatMessage{Role: "assistant", Content: reply})
	return reply
}

// complete runs one model call over the session history plus any extra
// messages. Extra messages shape this call only and are never stored.
func (e *Engine) complete(ctx context.Context, sessionID string, extra ...protocol.ChatMessage) (string, error) {
	e.mu.RLock()
	system := e.system
	e.mu.RUnlock()

	history := e.sessions.History(sessionID)
	msgs := make([]protocol.ChatMessage, 0, len(history)+len(extra)+1)
	msgs = append(msgs, protocol.ChatMessage{Role: "system", Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, extra...)

	resp, err := e.llm.Chat(ctx, protocol.ChatRequest{
		Messages:    msgs,
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// buildSystemPrompt writes the instructions the model sees on every
// call. The tool list comes from the live server so prompt and registry
// cannot drift apart.
func buildSystemPrompt(descs []protocol.ToolDescriptor) string {
	var b strings.Builder
	b.WriteString("You are GameDex, the assistant for a digital game store catalog.\n")

	if len(descs) == 0 {
		b.WriteString("\nThe catalog backend is currently offline. Answer from general knowledge and let the user know live catalog data is unavailable.")
		return b.String()
	}

	b.WriteString("\nYou can call these tools:\n")
	for i, d := range descs {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, d.Name, d.Description)
		if hint := formatArgHint(d.Arguments); hint != "" {
			b.WriteString(" ")
			b.WriteString(hint)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
To call a tool, answer with a single JSON object and nothing else:
{"tool": "<tool name>", "arguments": {<arguments>}}

Examples:
"show me everything" -> {"tool": "list_products", "arguments": {}}
"find witcher" -> {"tool": "find_product", "arguments": {"name": "witcher"}}
"games under 30 dollars" -> {"tool": "find_products_by_price_range", "arguments": {"min_price": 0, "max_price": 30}}
"what is 15% of 80" -> {"tool": "calculate", "arguments": {"expression": "80 * 0.15"}}

When no tool fits, answer in plain text. Keep replies short and friendly.`)
	return b.String()
}

// formatArgHint renders an argument schema as "(name: string; max_price:
// number, optional)" for the prompt, or "" for zero-argument tools.
func formatArgHint(args []protocol.ArgSpec) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		p := fmt.Sprintf("%s: %s", a.Name, a.Type)
		if !a.Required {
			p += ", optional"
		}
		parts = append(parts, p)
	}
	return "(" + strings.Join(parts, "; ") + ")"
}
