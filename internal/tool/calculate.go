package tool

import (
	"context"
	"errors"

	"github.com/gamedex-io/gamedex/internal/eval"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// --- CalculateTool ---

// CalculateTool evaluates arithmetic expressions through the safe
// evaluator. The dispatcher short-circuits this tool by name and uses
// the evaluator's envelope directly; Execute exists so the tool also
// works for callers that run it without a dispatcher.
type CalculateTool struct{}

func (t *CalculateTool) Name() string        { return "calculate" }
func (t *CalculateTool) Description() string  { return "Safely evaluates a math expression" }

func (t *CalculateTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "expression", Type: protocol.ArgString, Required: true},
	}
}

func (t *CalculateTool) Execute(_ context.Context, args map[string]any) (any, error) {
	expr, _ := args["expression"].(string)
	res := eval.Evaluate(expr)
	if !res.OK {
		return nil, errors.New(res.Error)
	}
	return res.Result, nil
}
