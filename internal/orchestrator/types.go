// Package orchestrator implements the turn driver tying together the
// Context, Archive selection, prompt rendering/parsing, tool dispatch,
// and eval logging into one orchestration loop (spec §4.K).
package orchestrator

import (
	"context"

	"codenerd/internal/module"
	"codenerd/internal/phenotype"
	"codenerd/internal/tools"
)

// EvalRecord is the append-only module eval record (spec §3): one per
// completed turn or training example, feeding the scorer/archive.
type EvalRecord struct {
	ModuleID             string
	TrainingExampleIndex int // -1 for a live orchestration turn, not a training run
	OK                   bool
	Score                float64
	Phenotype            phenotype.Phenotype
	ElapsedMs            int64
	PromptTokens         int
	CompletionTokens     int
	ModelName            string
}

// EvalSink is the append-only sink eval records are written to (spec §1
// "Persistence stores ... modeled as append-only ... sinks").
type EvalSink interface {
	Append(ctx context.Context, record EvalRecord) error
}

// ToolCall is one declared tool invocation extracted from a structured
// model response.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolOutcome pairs a dispatched ToolCall with its result or error text.
type ToolOutcome struct {
	Call   ToolCall
	Result string
	Err    string
}

// TurnResult is what RunTurn returns to the caller.
type TurnResult struct {
	Module       *module.Module
	Outputs      map[string]any
	ToolOutcomes []ToolOutcome
	Eval         EvalRecord
}

// Deps bundles the external collaborators a turn needs: the tool
// registry, the caller's security level for gating, and the sub-agent
// profile restricting which tools are visible (spec §4.K step 6, §6).
type Deps struct {
	Tools           *tools.Registry
	SecurityLevel   tools.SecurityLevel
	Profile         tools.Profile
	MaxIterations   int
	ExpectedOutputs map[string]any // optional: drives score() when provided
}
