// Package scoring derives a composite quality score and a Phenotype
// coordinate from a module's run result (spec §4.E).
package scoring

import (
	"codenerd/internal/phenotype"
	"codenerd/internal/promptio"
)

// ExactScorer computes the accuracy component for a run that does not
// match the expected outputs field-for-field. When nil, a non-exact match
// scores 0.0.
type ExactScorer func(expected, actual map[string]any) float64

// latencyCap and costMultiplier are the fixed coefficients from spec §4.E.
const (
	latencyCapMs      = 5000.0
	latencyPenaltyCap = 2.0
	costMultiplier    = 1000.0
	minScore          = 0.1
	exactMatchScore   = 10.0
)

// Score computes max(0.1, accuracy_component - latency_penalty - cost_penalty)
// for a completed run against its expected outputs. The run's Meta.Cost
// carries the model-priced cost, supplied externally by the sender (spec
// §4.E note: "cost is derived from model-specific pricing supplied
// externally").
func Score(expected map[string]any, run promptio.RunResult, scorer ExactScorer) float64 {
	accuracy := accuracyComponent(expected, run.Outputs, scorer)
	latencyPenalty := latencyCapPenalty(float64(run.Meta.ElapsedMs))
	costPenalty := costMultiplier * run.Meta.Cost

	s := accuracy - latencyPenalty - costPenalty
	if s < minScore {
		return minScore
	}
	return s
}

func accuracyComponent(expected, actual map[string]any, scorer ExactScorer) float64 {
	if exactMatch(expected, actual) {
		return exactMatchScore
	}
	if scorer != nil {
		return scorer(expected, actual)
	}
	return 0.0
}

func exactMatch(expected, actual map[string]any) bool {
	if len(expected) == 0 {
		return false
	}
	for k, v := range expected {
		av, ok := actual[k]
		if !ok {
			return false
		}
		if !valuesEqual(v, av) {
			return false
		}
	}
	return true
}

// valuesEqual compares two decoded-JSON values for equality, treating
// numeric types uniformly since JSON numbers decode to float64.
func valuesEqual(a, b any) bool {
	af, aIsFloat := a.(float64)
	bf, bIsFloat := b.(float64)
	if aIsFloat && bIsFloat {
		return af == bf
	}
	return a == b
}

func latencyCapPenalty(elapsedMs float64) float64 {
	p := elapsedMs / latencyCapMs
	if p > latencyPenaltyCap {
		return latencyPenaltyCap
	}
	return p
}

// Phenotype derives the Phenotype coordinate for a scored run: accuracy is
// the score itself, latency and usage come from the run's measured
// elapsed time and token counts, and cost is the externally-priced cost
// carried on the run (spec §4.E).
func Phenotype(run promptio.RunResult, score float64) phenotype.Phenotype {
	return phenotype.Phenotype{
		Accuracy: score,
		Latency:  float64(run.Meta.ElapsedMs),
		Cost:     run.Meta.Cost,
		Usage:    float64(run.Meta.PromptTokens + run.Meta.CompletionTokens),
	}
}
