package tool

import (
	"context"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// Tool is the interface every catalog tool must implement.
type Tool interface {
	Name() string
	Description() string
	Arguments() []protocol.ArgSpec // ordered argument schema
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Describe builds the wire descriptor for a tool. A nil argument schema
// is published as an empty list so zero-argument tools always carry one.
func Describe(t Tool) protocol.ToolDescriptor {
	args := t.Arguments()
	if args == nil {
		args = []protocol.ArgSpec{}
	}
	return protocol.ToolDescriptor{
		Name:        t.Name(),
		Description: t.Description(),
		Arguments:   args,
	}
}
