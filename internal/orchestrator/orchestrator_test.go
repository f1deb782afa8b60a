package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codenerd/internal/archive"
	"codenerd/internal/module"
	"codenerd/internal/phenotype"
	"codenerd/internal/promptio"
	"codenerd/internal/scoring"
	"codenerd/internal/sessionctx"
	"codenerd/internal/tools"
)

func testModule(t *testing.T) *module.Module {
	t.Helper()
	sig, err := module.NewSignature("reply",
		[]module.SigField{{Name: "question", Predicate: module.PredicateString}},
		[]module.SigField{{Name: "answer", Predicate: module.PredicateString}},
	)
	require.NoError(t, err)
	return module.Predict(sig, "Answer the question.", "Predict/reply")
}

func seededArchive(t *testing.T) *archive.Archive {
	t.Helper()
	m := testModule(t)
	a := archive.New(m.Signature)
	a.Insert(m, 8.0, phenotype.Phenotype{Accuracy: 8, Latency: 100, Cost: 0.01, Usage: 50})
	return a
}

// memSink is a trivial in-memory EvalSink for assertions.
type memSink struct {
	records []EvalRecord
}

func (m *memSink) Append(ctx context.Context, r EvalRecord) error {
	m.records = append(m.records, r)
	return nil
}

func TestRunTurn_HappyPathNoToolCalls(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("you are helpful", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		return `{"answer":"42"}`, promptio.Usage{Model: "test-model", ElapsedMs: 10, PromptTokens: 5, CompletionTokens: 2}, nil
	}

	result, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "what is 6*7"}, sender, nil, "", nil, sink, Deps{MaxIterations: 3})
	require.NoError(t, err)
	assert.Equal(t, "42", result.Outputs["answer"])
	assert.Empty(t, result.ToolOutcomes)
	require.Len(t, sink.records, 1)
	assert.True(t, sink.records[0].OK)
	assert.Equal(t, "test-model", sink.records[0].ModelName)
}

func TestRunTurn_RetriesOnceOnParseFailureThenSucceeds(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	calls := 0
	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		calls++
		if calls == 1 {
			return "not json at all", promptio.Usage{}, nil
		}
		return `{"answer":"fixed"}`, promptio.Usage{}, nil
	}

	result, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, sink, Deps{MaxIterations: 1})
	require.NoError(t, err)
	assert.Equal(t, "fixed", result.Outputs["answer"])
	assert.Equal(t, 2, calls)
}

func TestRunTurn_SecondParseFailureRecordsEvalAndReturnsError(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		return "still not json", promptio.Usage{}, nil
	}

	_, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, sink, Deps{MaxIterations: 1})
	assert.Error(t, err)
	require.Len(t, sink.records, 1)
	assert.False(t, sink.records[0].OK)
}

func TestRunTurn_DispatchesToolCallsAndFeedsBackResults(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(&tools.Tool{
		Name:     "lookup",
		Category: tools.CategoryGeneral,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "looked-up-value", nil
		},
	}))

	calls := 0
	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		calls++
		if calls == 1 {
			return `{"answer":"pending","tool_calls":[{"tool":"lookup","args":{"key":"x"}}]}`, promptio.Usage{}, nil
		}
		return `{"answer":"resolved"}`, promptio.Usage{}, nil
	}

	deps := Deps{Tools: registry, SecurityLevel: tools.SecurityReadOnly, Profile: tools.ProfileAll, MaxIterations: 3}
	result, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, sink, deps)
	require.NoError(t, err)
	assert.Equal(t, "resolved", result.Outputs["answer"])
	require.Len(t, result.ToolOutcomes, 1)
	assert.Equal(t, "looked-up-value", result.ToolOutcomes[0].Result)
	assert.Equal(t, 2, calls)
}

func TestRunTurn_ToolDispatchDeniedBySecurityLevelRecordsError(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(&tools.Tool{
		Name:     "shell-exec",
		Category: tools.CategoryShell,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "ran", nil
		},
	}))

	calls := 0
	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		calls++
		if calls == 1 {
			return `{"answer":"pending","tool_calls":[{"tool":"shell-exec","args":{}}]}`, promptio.Usage{}, nil
		}
		return `{"answer":"done"}`, promptio.Usage{}, nil
	}

	deps := Deps{Tools: registry, SecurityLevel: tools.SecurityReadOnly, Profile: tools.ProfileAll, MaxIterations: 3}
	result, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, sink, deps)
	require.NoError(t, err)
	require.Len(t, result.ToolOutcomes, 1)
	assert.NotEmpty(t, result.ToolOutcomes[0].Err)
}

func TestRunTurn_ScoresExactMatchAgainstExpectedOutputs(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")
	sink := &memSink{}

	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		return `{"answer":"42"}`, promptio.Usage{ElapsedMs: 1}, nil
	}

	deps := Deps{MaxIterations: 1, ExpectedOutputs: map[string]any{"answer": "42"}}
	result, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, sink, deps)
	require.NoError(t, err)
	assert.InDelta(t, scoring.Score(map[string]any{"answer": "42"}, promptio.RunResult{Outputs: map[string]any{"answer": "42"}}, nil), result.Eval.Score, 0.001)
}

func TestExtractToolCalls_NoToolCallsKeyReturnsNil(t *testing.T) {
	calls := extractToolCalls(`{"answer":"42"}`)
	assert.Nil(t, calls)
}

func TestExtractToolCalls_IgnoresMalformedEntry(t *testing.T) {
	calls := extractToolCalls(`{"tool_calls":[{"args":{"x":1}}]}`)
	assert.Empty(t, calls)
}

func TestExtractToolCalls_ParsesMultipleCalls(t *testing.T) {
	raw := `{"answer":"x","tool_calls":[{"tool":"a","args":{"n":1}},{"tool":"b","args":{}}]}`
	calls := extractToolCalls(raw)
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].Name)
	assert.Equal(t, "b", calls[1].Name)
}

func TestRunTurn_SelectionFailureOnEmptyArchive(t *testing.T) {
	a := archive.New(testModule(t).Signature)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")

	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		return `{}`, promptio.Usage{}, nil
	}

	_, err := RunTurn(context.Background(), sess, a, nil, sender, nil, "", nil, nil, Deps{})
	assert.Error(t, err)
}

func TestRunTurn_SenderErrorPropagates(t *testing.T) {
	a := seededArchive(t)
	sess := sessionctx.New("sys", sessionctx.ModeAsk, "best")

	sender := func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		return "", promptio.Usage{}, fmt.Errorf("network down")
	}

	_, err := RunTurn(context.Background(), sess, a, map[string]any{"question": "q"}, sender, nil, "", nil, nil, Deps{MaxIterations: 1})
	assert.Error(t, err)
}
