package provider

import (
	"context"
	"fmt"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// Provider is the abstraction over LLM APIs.
type Provider interface {
	Chat(ctx context.Context, req protocol.ChatRequest) (*protocol.ChatResponse, error)
	Name() string
}

// New creates a provider by name. An empty name selects OpenAI. model
// and baseURL override the provider defaults when non-empty.
func New(name, apiKey, model, baseURL string) (Provider, error) {
	switch name {
	case "", "openai":
		var opts []OpenAIOption
		if model != "" {
			opts = append(opts, WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, WithBaseURL(baseURL))
		}
		return NewOpenAI(apiKey, opts...), nil
	case "anthropic":
		var opts []AnthropicOption
		if model != "" {
			opts = append(opts, WithAnthropicModel(model))
		}
		if baseURL != "" {
			opts = append(opts, WithAnthropicBaseURL(baseURL))
		}
		return NewAnthropic(apiKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
