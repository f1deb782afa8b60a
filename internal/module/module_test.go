package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sig(t *testing.T) *Signature {
	t.Helper()
	s, err := NewSignature("qa", []SigField{{Name: "question", Predicate: PredicateString}}, []SigField{{Name: "answer", Predicate: PredicateString}})
	require.NoError(t, err)
	return s
}

func TestNewSignature_RejectsDuplicateNames(t *testing.T) {
	_, err := NewSignature("dup", []SigField{{Name: "x", Predicate: PredicateString}, {Name: "x", Predicate: PredicateNumber}}, nil)
	assert.Error(t, err)
}

func TestNewSignature_AllowsSameNameAcrossSides(t *testing.T) {
	_, err := NewSignature("echo", []SigField{{Name: "x", Predicate: PredicateString}}, []SigField{{Name: "x", Predicate: PredicateString}})
	assert.NoError(t, err)
}

func TestPredict_DefaultID(t *testing.T) {
	m := Predict(sig(t), "answer the question", "")
	assert.Equal(t, "Predict/qa", m.ID)
	assert.Equal(t, StrategyPredict, m.Strategy)
}

func TestChainOfThought_DefaultID(t *testing.T) {
	m := ChainOfThought(sig(t), "think then answer", "")
	assert.Equal(t, "CoT/qa", m.ID)
	assert.Equal(t, StrategyChainOfThought, m.Strategy)
}

func TestModule_Equal(t *testing.T) {
	s := sig(t)
	a := Predict(s, "be terse", "m1")
	b := Predict(s, "be terse", "m1")
	c := Predict(s, "be verbose", "m1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestModule_WithInstructionsDoesNotMutateParent(t *testing.T) {
	parent := Predict(sig(t), "original", "p1")
	child := parent.WithInstructions("p1-child", "mutated")

	assert.Equal(t, "original", parent.Instructions)
	assert.Equal(t, "mutated", child.Instructions)
	assert.Equal(t, "p1-child", child.ID)
}

func TestModule_Temperature_Default(t *testing.T) {
	m := Predict(sig(t), "x", "")
	assert.Equal(t, 0.0, m.Temperature())
}

func TestPredicateKind_Validate(t *testing.T) {
	assert.True(t, PredicateString.Validate("hi"))
	assert.False(t, PredicateString.Validate(5))

	assert.True(t, PredicateNumber.Validate(5.0))
	assert.False(t, PredicateNumber.Validate("5"))

	assert.True(t, PredicateBool.Validate(true))

	assert.True(t, PredicateListOfStr.Validate([]any{"a", "b"}))
	assert.False(t, PredicateListOfStr.Validate([]any{"a", 1}))

	assert.True(t, PredicateJSON.Validate(map[string]any{"a": 1}))
}
