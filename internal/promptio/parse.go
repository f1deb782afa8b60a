package promptio

import (
	"encoding/json"
	"errors"
	"fmt"

	"codenerd/internal/module"
)

// Parse errors, in the priority order they are checked (spec §4.C).
var (
	ErrParseNoJSON = errors.New("parse-no-json")
	ErrParseMissingField = errors.New("parse-missing-field")
	ErrParseTypeMismatch = errors.New("parse-type-mismatch")
)

// Parse extracts the first balanced JSON object substring from raw and
// validates it against m's declared output fields. On success it returns
// outputs keyed by field name. On failure OK is false and Outputs is nil;
// the returned RunResult still carries raw, prompt and meta.
func Parse(m *module.Module, raw, prompt string, meta Usage) (RunResult, error) {
	obj, found := extractJSONObject(raw)
	if !found {
		return RunResult{OK: false, Raw: raw, Prompt: prompt, Meta: meta}, ErrParseNoJSON
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(obj), &decoded); err != nil {
		return RunResult{OK: false, Raw: raw, Prompt: prompt, Meta: meta}, fmt.Errorf("%w: %v", ErrParseNoJSON, err)
	}

	outputs := make(map[string]any, len(m.Signature.Outputs)+1)

	if m.Strategy == module.StrategyChainOfThought {
		if thought, ok := decoded["thought"]; ok {
			outputs["thought"] = thought
		}
	}

	for _, f := range m.Signature.Outputs {
		v, ok := decoded[f.Name]
		if !ok {
			return RunResult{OK: false, Raw: raw, Prompt: prompt, Meta: meta}, fmt.Errorf("%w:%s", ErrParseMissingField, f.Name)
		}
		if !f.Predicate.Validate(v) {
			return RunResult{OK: false, Raw: raw, Prompt: prompt, Meta: meta}, fmt.Errorf("%w:%s", ErrParseTypeMismatch, f.Name)
		}
		outputs[f.Name] = v
	}

	return RunResult{OK: true, Outputs: outputs, Raw: raw, Prompt: prompt, Meta: meta}, nil
}

// extractJSONObject scans s for the first balanced {...} substring,
// respecting string literals and escapes so braces inside strings don't
// throw off the balance count.
func extractJSONObject(s string) (string, bool) {
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
