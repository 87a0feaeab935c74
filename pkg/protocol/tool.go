package protocol

import "encoding/json"

// ArgType is the value type of a tool argument.
type ArgType string

const (
	ArgString  ArgType = "string"
	ArgNumber  ArgType = "number"
	ArgInteger ArgType = "integer"
)

// ArgSpec describes a single argument in a tool's schema.
type ArgSpec struct {
	Name     string  `json:"name"`
	Type     ArgType `json:"type"`
	Required bool    `json:"required"`
	Default  any     `json:"default,omitempty"`
}

// ToolDescriptor is one entry in the tool catalog: a name, a human
// description, and the ordered argument schema. Built once at startup.
type ToolDescriptor struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Arguments   []ArgSpec `json:"arguments"`
}

// CallToolRequest is the body of POST /call_tool.
type CallToolRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the uniform envelope returned by every tool invocation.
// Exactly one of Result/Error is populated: Result when OK, Error when not.
type ToolResult struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// MarshalJSON emits the result field for every successful envelope, even
// when the value is a zero like 0 or an empty list, which omitempty would
// otherwise drop.
func (r ToolResult) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(struct {
			OK     bool `json:"ok"`
			Result any  `json:"result"`
		}{true, r.Result})
	}
	return json.Marshal(struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}{false, r.Error})
}

// OkResult wraps a handler return value in a successful envelope.
func OkResult(v any) ToolResult {
	return ToolResult{OK: true, Result: v}
}

// ErrResult wraps an error message in a failed envelope.
func ErrResult(msg string) ToolResult {
	return ToolResult{OK: false, Error: msg}
}
