package tool

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// ValidateArgs checks an argument bag against a tool's schema before the
// tool runs. Schema defaults are filled in for absent optional arguments,
// missing required arguments and type mismatches are collected in schema
// order, and unknown keys are rejected. All problems are reported in one
// pass so a caller can fix its request in a single round trip.
func ValidateArgs(spec []protocol.ArgSpec, args map[string]any) (map[string]any, error) {
	known := make(map[string]bool, len(spec))
	for _, as := range spec {
		known[as.Name] = true
	}

	var problems []string
	validated := make(map[string]any, len(spec))

	for _, as := range spec {
		v, ok := args[as.Name]
		if !ok {
			if as.Default != nil {
				validated[as.Name] = as.Default
				continue
			}
			if as.Required {
				problems = append(problems, fmt.Sprintf("missing required argument %q", as.Name))
			}
			continue
		}
		if err := checkType(as, v); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		validated[as.Name] = v
	}

	var unknown []string
	for k := range args {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		problems = append(problems, fmt.Sprintf("unexpected argument %q", k))
	}

	if len(problems) > 0 {
		return nil, &ArgumentError{Detail: strings.Join(problems, "; ")}
	}
	return validated, nil
}

func checkType(as protocol.ArgSpec, v any) error {
	switch as.Type {
	case protocol.ArgString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("argument %q must be a string", as.Name)
		}
	case protocol.ArgNumber:
		if _, ok := toFloat(v); !ok {
			return fmt.Errorf("argument %q must be a number", as.Name)
		}
	case protocol.ArgInteger:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("argument %q must be an integer", as.Name)
		}
	}
	return nil
}

// toFloat widens the numeric types JSON decoding and Go callers produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// DecodeArgs fills a tool's typed argument struct from a validated bag.
// Decoding is weakly typed so integral JSON numbers land in int fields.
func DecodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return &ArgumentError{Detail: err.Error()}
	}
	return nil
}
