package orchestrator

import (
	"context"
	"fmt"

	"codenerd/internal/archive"
	"codenerd/internal/logging"
	"codenerd/internal/module"
	"codenerd/internal/promptio"
	"codenerd/internal/scoring"
	"codenerd/internal/sessionctx"
)

const clarificationAppendix = "\n\nYour previous response could not be parsed as the required STRICT JSON. Respond again with exactly the declared output fields and nothing else."

// RunTurn drives one orchestration turn against arch (spec §4.K):
//
//  1. Select a module from arch under sess.Priority.
//  2. Render the prompt from sess's history and rules.
//  3. Send it.
//  4. Parse the response, retrying once with a clarification appendix on
//     failure; a second failure records the eval and returns an error.
//  5. Extract and dispatch any declared tool calls through deps.Tools,
//     respecting deps.SecurityLevel and deps.Profile.
//  6. Feed tool results back for a follow-up call, repeating steps 2-5 up
//     to deps.MaxIterations.
//  7. On completion, score the final response, extract its phenotype,
//     insert the module back into arch, and append an eval record to sink.
func RunTurn(ctx context.Context, sess *sessionctx.Context, arch *archive.Archive, inputs map[string]any, sender promptio.Sender, cache *archive.PriorityCache, rules string, scorer scoring.ExactScorer, sink EvalSink, deps Deps) (TurnResult, error) {
	m, err := archive.Select(ctx, arch, sess.Priority, sender, cache)
	if err != nil {
		return TurnResult{}, fmt.Errorf("module selection failed: %w", err)
	}

	maxIter := deps.MaxIterations
	if maxIter <= 0 {
		maxIter = 1
	}

	var (
		run         promptio.RunResult
		allOutcomes []ToolOutcome
	)

	for iter := 0; iter < maxIter; iter++ {
		run, err = renderSendParse(ctx, m, inputs, sess, rules, sender)
		if err != nil {
			eval := failedEval(m, err)
			if sink != nil {
				_ = sink.Append(ctx, eval)
			}
			return TurnResult{}, fmt.Errorf("turn failed after retry: %w", err)
		}

		sess.AppendTurn("assistant", run.Raw)

		calls := extractToolCalls(run.Raw)
		if len(calls) == 0 {
			break
		}

		outcomes := dispatchToolCalls(ctx, calls, deps)
		allOutcomes = append(allOutcomes, outcomes...)
		for _, o := range outcomes {
			sess.AppendTurn("tool", formatToolOutcome(o))
		}

		if iter == maxIter-1 {
			logging.OrchestrationDebug("max iterations reached with tool calls still pending")
		}
	}

	score := scoring.Score(deps.ExpectedOutputs, run, scorer)
	pheno := scoring.Phenotype(run, score)
	arch.Insert(m, score, pheno)

	eval := EvalRecord{
		ModuleID:             m.ID,
		TrainingExampleIndex: -1,
		OK:                   run.OK,
		Score:                score,
		Phenotype:            pheno,
		ElapsedMs:            run.Meta.ElapsedMs,
		PromptTokens:         run.Meta.PromptTokens,
		CompletionTokens:     run.Meta.CompletionTokens,
		ModelName:            run.Meta.Model,
	}
	if sink != nil {
		if err := sink.Append(ctx, eval); err != nil {
			logging.OrchestrationError("eval sink append failed: %v", err)
		}
	}

	return TurnResult{Module: m, Outputs: run.Outputs, ToolOutcomes: allOutcomes, Eval: eval}, nil
}

// renderSendParse renders, sends, and parses once, retrying a single time
// with a clarification appendix if the first parse fails (spec §4.K step
// 5: "retry once on failure with clarification appendix, second failure
// records eval and returns error").
func renderSendParse(ctx context.Context, m *module.Module, inputs map[string]any, sess *sessionctx.Context, rules string, sender promptio.Sender) (promptio.RunResult, error) {
	prompt := promptio.Render(m, inputs, sess.HistoryStrings(), rules)

	run, err := sendAndParse(ctx, m, prompt, sender)
	if err == nil {
		return run, nil
	}
	logging.OrchestrationDebug("parse failed, retrying with clarification: %v", err)

	retryPrompt := prompt + clarificationAppendix
	run, err = sendAndParse(ctx, m, retryPrompt, sender)
	if err != nil {
		return promptio.RunResult{}, err
	}
	return run, nil
}

func sendAndParse(ctx context.Context, m *module.Module, prompt string, sender promptio.Sender) (promptio.RunResult, error) {
	text, usage, err := sender(ctx, prompt, m.Params)
	if err != nil {
		return promptio.RunResult{}, fmt.Errorf("sender failed: %w", err)
	}
	return promptio.Parse(m, text, prompt, usage)
}

// dispatchToolCalls executes each declared call through the gated
// registry, collecting a ToolOutcome per call regardless of success so
// the caller can feed failures back to the model too.
func dispatchToolCalls(ctx context.Context, calls []ToolCall, deps Deps) []ToolOutcome {
	outcomes := make([]ToolOutcome, 0, len(calls))
	for _, call := range calls {
		if deps.Tools == nil {
			outcomes = append(outcomes, ToolOutcome{Call: call, Err: "no tool registry configured"})
			continue
		}

		result, err := deps.Tools.ExecuteGated(ctx, call.Name, call.Args, deps.SecurityLevel, deps.Profile)
		if err != nil {
			logging.OrchestrationDebug("tool %s dispatch failed: %v", call.Name, err)
			outcomes = append(outcomes, ToolOutcome{Call: call, Err: err.Error()})
			continue
		}
		if !result.IsSuccess() {
			outcomes = append(outcomes, ToolOutcome{Call: call, Err: result.Error.Error()})
			continue
		}
		outcomes = append(outcomes, ToolOutcome{Call: call, Result: result.Result})
	}
	return outcomes
}

func formatToolOutcome(o ToolOutcome) string {
	if o.Err != "" {
		return fmt.Sprintf("%s failed: %s", o.Call.Name, o.Err)
	}
	return fmt.Sprintf("%s: %s", o.Call.Name, o.Result)
}

func failedEval(m *module.Module, err error) EvalRecord {
	logging.OrchestrationError("turn failed for module %s after retry: %v", m.ID, err)
	return EvalRecord{
		ModuleID:             m.ID,
		TrainingExampleIndex: -1,
		OK:                   false,
		Score:                scoring.Score(nil, promptio.RunResult{}, nil),
	}
}
