// Package promptio renders Modules into prompt strings and parses
// structured model responses back into typed output fields (spec §4.C).
package promptio

import "context"

// Usage carries token/cost accounting for a single sender call.
type Usage struct {
	Model            string
	ElapsedMs        int64
	PromptTokens     int
	CompletionTokens int
	Cost             float64
}

// RunResult is the contract between the core and its external tool/sender
// consumers (spec §6): whether parsing succeeded, the typed outputs, the
// raw response text, the prompt that produced it, and usage metadata.
type RunResult struct {
	OK      bool
	Outputs map[string]any
	Raw     string
	Prompt  string
	Meta    Usage
}

// Sender is the abstract external function that takes a rendered prompt
// and returns response text plus usage metadata. Concrete LLM transports
// are out of scope for this core (spec §1); callers supply a Sender
// backed by whatever transport they use.
type Sender func(ctx context.Context, prompt string, params map[string]any) (text string, usage Usage, err error)
