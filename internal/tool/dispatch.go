package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamedex-io/gamedex/internal/catalog"
	"github.com/gamedex-io/gamedex/internal/eval"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// Dispatcher resolves tool invocations against a registry and folds
// every outcome into the result envelope. Business failures never
// surface as transport errors; callers always get ok/error JSON.
// The dispatcher holds no per-invocation state.
type Dispatcher struct {
	reg    *Registry
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(reg *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{reg: reg, logger: logger}
}

// Invoke runs the named tool with the given arguments. A nil argument
// bag is treated as empty, which is valid for zero-argument tools.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) protocol.ToolResult {
	if args == nil {
		args = map[string]any{}
	}

	// calculate bypasses the registry entirely: the evaluator produces
	// the envelope itself, including its own validation messages.
	if name == "calculate" {
		expr, _ := args["expression"].(string)
		return eval.Evaluate(expr)
	}

	t, ok := d.reg.Get(name)
	if !ok {
		return protocol.ErrResult(fmt.Sprintf("tool '%s' not found", name))
	}

	validated, err := ValidateArgs(t.Arguments(), args)
	if err != nil {
		return protocol.ErrResult(fmt.Sprintf("invalid arguments for tool '%s': %v", name, err))
	}

	result, err := t.Execute(ctx, validated)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			// Domain rejections travel verbatim so the caller sees the
			// same message the store produced.
			return protocol.ErrResult(verr.Error())
		}
		var aerr *ArgumentError
		if errors.As(err, &aerr) {
			return protocol.ErrResult(fmt.Sprintf("invalid arguments for tool '%s': %v", name, aerr))
		}
		d.logger.Error("tool execution failed", "tool", name, "error", err)
		return protocol.ErrResult(fmt.Sprintf("internal error while executing tool '%s': %v", name, err))
	}
	return protocol.OkResult(result)
}
