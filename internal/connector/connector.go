// Package connector holds the chat surfaces the bot serves. Each
// connector listens on one platform and funnels user messages through
// a shared Responder.
package connector

import "context"

// Responder produces the reply for one inbound chat message. The
// session ID scopes conversation history; connectors derive it from
// platform chat identifiers so separate chats never share context.
type Responder interface {
	HandleMessage(ctx context.Context, sessionID, text string) string
}

// Connector is a chat surface (e.g. Telegram, Slack, a local HTTP
// endpoint for development).
type Connector interface {
	// Name identifies the platform, e.g. "telegram".
	Name() string
	// Start begins serving messages. Blocks until ctx is cancelled.
	Start(ctx context.Context) error
	// Stop shuts the connector down.
	Stop() error
}
