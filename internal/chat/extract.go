package chat

import (
	"encoding/json"
	"strings"
)

// ToolCall is a tool invocation the model asked for.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// ExtractJSONObject returns the first balanced-brace JSON object found
// in text, or "" when there is none. Models rarely answer with clean
// JSON: the object is usually wrapped in prose or a markdown fence, so
// we scan rather than unmarshal the whole reply.
func ExtractJSONObject(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchBrace(text, i)
		if end < 0 {
			continue
		}
		candidate := text[i : end+1]
		var obj map[string]json.RawMessage
		if json.Unmarshal([]byte(candidate), &obj) == nil {
			return candidate
		}
	}
	return ""
}

// matchBrace returns the index of the brace closing the one at start,
// or -1 if the text ends first. Braces inside JSON strings do not
// count, and escaped quotes do not end a string.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return -1
}

// ParseToolCall extracts a tool call from a model reply. The second
// return is false when the reply carries no JSON object or the object
// has no "tool" field; the reply is then plain text for the user.
func ParseToolCall(text string) (ToolCall, bool) {
	raw := ExtractJSONObject(text)
	if raw == "" {
		return ToolCall{}, false
	}
	var call ToolCall
	if err := json.Unmarshal([]byte(raw), &call); err != nil {
		return ToolCall{}, false
	}
	if strings.TrimSpace(call.Tool) == "" {
		return ToolCall{}, false
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	return call, true
}
