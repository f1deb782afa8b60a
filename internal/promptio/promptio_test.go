package promptio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codenerd/internal/module"
)

func qaModule(t *testing.T, strategy module.Strategy) *module.Module {
	t.Helper()
	sig, err := module.NewSignature("qa",
		[]module.SigField{{Name: "question", Predicate: module.PredicateString}},
		[]module.SigField{{Name: "answer", Predicate: module.PredicateString}})
	require.NoError(t, err)

	var m *module.Module
	if strategy == module.StrategyChainOfThought {
		m = module.ChainOfThought(sig, "Answer the question.", "")
	} else {
		m = module.Predict(sig, "Answer the question.", "")
	}
	return m
}

func TestRender_ContainsFieldSections(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	prompt := Render(m, map[string]any{"question": "2+2?"}, nil, "")

	assert.Contains(t, prompt, "Input Fields:")
	assert.Contains(t, prompt, "- question: string")
	assert.Contains(t, prompt, "Output Fields:")
	assert.Contains(t, prompt, "- answer: string")
	assert.Contains(t, prompt, "question: 2+2?")
	assert.Contains(t, prompt, "STRICT JSON")
}

func TestRender_ChainOfThoughtPrependsThought(t *testing.T) {
	m := qaModule(t, module.StrategyChainOfThought)
	prompt := Render(m, map[string]any{"question": "why?"}, nil, "")

	outputIdx := strings.Index(prompt, "Output Fields:")
	thoughtIdx := strings.Index(prompt, "- thought: string")
	answerIdx := strings.Index(prompt, "- answer: string")

	require.True(t, outputIdx >= 0 && thoughtIdx >= 0 && answerIdx >= 0)
	assert.Less(t, outputIdx, thoughtIdx)
	assert.Less(t, thoughtIdx, answerIdx)
}

func TestRender_DemosOmitMissingFields(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	m = m.WithDemos([]module.Demo{{"question": "1+1?"}})

	prompt := Render(m, map[string]any{"question": "x"}, nil, "")
	assert.Contains(t, prompt, "Example 1:")
	assert.Contains(t, prompt, "question: 1+1?")
}

func TestParse_Success(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	raw := `Here is my answer: {"answer": "4"} thanks`

	result, err := Parse(m, raw, "prompt", Usage{})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "4", result.Outputs["answer"])
}

func TestParse_NoJSON(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	_, err := Parse(m, "no json here", "prompt", Usage{})
	assert.True(t, errors.Is(err, ErrParseNoJSON))
}

func TestParse_MissingField(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	_, err := Parse(m, `{"wrong_field": "4"}`, "prompt", Usage{})
	assert.True(t, errors.Is(err, ErrParseMissingField))
}

func TestParse_TypeMismatch(t *testing.T) {
	m := qaModule(t, module.StrategyPredict)
	_, err := Parse(m, `{"answer": 4}`, "prompt", Usage{})
	assert.True(t, errors.Is(err, ErrParseTypeMismatch))
}

func TestParse_NestedBraces(t *testing.T) {
	sig, err := module.NewSignature("j", nil, []module.SigField{{Name: "data", Predicate: module.PredicateJSON}})
	require.NoError(t, err)
	m := module.Predict(sig, "x", "")

	raw := `{"data": {"nested": {"a": 1}}}`
	result, err := Parse(m, raw, "p", Usage{})
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestParse_BraceInsideString(t *testing.T) {
	sig, err := module.NewSignature("qa2",
		nil, []module.SigField{{Name: "answer", Predicate: module.PredicateString}})
	require.NoError(t, err)
	m := module.Predict(sig, "x", "")

	raw := `{"answer": "contains } brace"}`
	result, err := Parse(m, raw, "p", Usage{})
	require.NoError(t, err)
	assert.Equal(t, "contains } brace", result.Outputs["answer"])
}
