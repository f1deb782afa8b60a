// Package module implements the typed Signature/Module data model: typed
// in/out declarations, and a module as the combination of a signature, an
// execution strategy, instructions, few-shot demonstrations, and
// parameters (spec §3, §4.B).
package module

import (
	"fmt"
	"reflect"
)

// Strategy selects how a Module's prompt is structured and its response
// parsed.
type Strategy string

const (
	// StrategyPredict asks for the declared outputs directly.
	StrategyPredict Strategy = "Predict"
	// StrategyChainOfThought prepends a "thought" pseudo-field to the
	// output enumeration of the rendered prompt. Parse keeps a "thought"
	// value when the response has one; it neither requires the field nor
	// checks its position.
	StrategyChainOfThought Strategy = "ChainOfThought"
)

// Demo is a single few-shot example: a mapping from field names (input or
// output) to example values. A demo may cover any subset of a signature's
// fields.
type Demo map[string]any

// Module is a signature bound to an execution strategy, instructions,
// demonstrations, and parameters. params carries at least "temperature"
// and may carry "seed".
type Module struct {
	ID           string
	Signature    *Signature
	Strategy     Strategy
	Instructions string
	Demos        []Demo
	Params       map[string]any
}

// Predict constructs a Module using the Predict strategy. id defaults to
// "Predict/<sig.Name>" when empty.
func Predict(sig *Signature, instructions string, id string) *Module {
	if id == "" {
		id = fmt.Sprintf("Predict/%s", sig.Name)
	}
	return &Module{
		ID:           id,
		Signature:    sig,
		Strategy:     StrategyPredict,
		Instructions: instructions,
		Params:       map[string]any{"temperature": 0.0},
	}
}

// ChainOfThought constructs a Module using the ChainOfThought strategy. id
// defaults to "CoT/<sig.Name>" when empty.
func ChainOfThought(sig *Signature, instructions string, id string) *Module {
	if id == "" {
		id = fmt.Sprintf("CoT/%s", sig.Name)
	}
	return &Module{
		ID:           id,
		Signature:    sig,
		Strategy:     StrategyChainOfThought,
		Instructions: instructions,
		Params:       map[string]any{"temperature": 0.0},
	}
}

// WithDemos returns a copy of m with the given demos attached.
func (m *Module) WithDemos(demos []Demo) *Module {
	clone := *m
	clone.Demos = append([]Demo(nil), demos...)
	return &clone
}

// WithInstructions returns a copy of m with the given id and new
// instructions, keeping the same signature, strategy, demos and params (the
// params map is shared with m, not copied). Used by the compiler to
// produce child variants without mutating the parent in place.
func (m *Module) WithInstructions(id, instructions string) *Module {
	clone := *m
	clone.ID = id
	clone.Instructions = instructions
	return &clone
}

// Equal reports whether two modules are value-equal across all fields.
// Archives rely on pointer/ID identity for storage, not this equality.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.ID != other.ID || m.Strategy != other.Strategy || m.Instructions != other.Instructions {
		return false
	}
	if m.Signature != other.Signature && !reflect.DeepEqual(m.Signature, other.Signature) {
		return false
	}
	return reflect.DeepEqual(m.Demos, other.Demos) && reflect.DeepEqual(m.Params, other.Params)
}

// Temperature returns the module's temperature parameter, defaulting to 0.
func (m *Module) Temperature() float64 {
	if v, ok := m.Params["temperature"].(float64); ok {
		return v
	}
	return 0.0
}

// Seed returns the module's seed parameter and whether one is set.
func (m *Module) Seed() (int64, bool) {
	v, ok := m.Params["seed"]
	if !ok {
		return 0, false
	}
	switch s := v.(type) {
	case int64:
		return s, true
	case int:
		return int64(s), true
	default:
		return 0, false
	}
}
