package orchestrator

import "encoding/json"

// toolCallsEnvelope is the wire shape a parsed response uses to declare
// tool calls: a top-level "tool_calls" array alongside the signature's own
// output fields, each entry naming a tool and its arguments. promptio.Parse
// only validates the signature's declared output fields, so tool_calls is
// extracted separately, directly from the same decoded JSON object (spec
// §4.K step 6, which names the step but not a schema).
type toolCallsEnvelope struct {
	ToolCalls []rawToolCall `json:"tool_calls"`
}

type rawToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// extractToolCalls decodes raw's first JSON object looking for a
// "tool_calls" array. Absence of the key, or a non-array value, means no
// tool calls were declared: this is not a parse failure, just silence.
func extractToolCalls(raw string) []ToolCall {
	obj, found := firstJSONObject(raw)
	if !found {
		return nil
	}

	var env toolCallsEnvelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return nil
	}

	calls := make([]ToolCall, 0, len(env.ToolCalls))
	for _, rc := range env.ToolCalls {
		if rc.Tool == "" {
			continue
		}
		calls = append(calls, ToolCall{Name: rc.Tool, Args: rc.Args})
	}
	return calls
}

// firstJSONObject scans s for the first balanced {...} substring. Mirrors
// promptio's own extraction so tool-call parsing sees exactly the object
// Parse validated.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch r {
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
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
