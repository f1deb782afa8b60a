// Package compiler implements the MAP-Elites Compiler: it bootstraps a
// base module with demonstrations, seeds a population of instruction
// mutations, and evolves child modules against a training set, inserting
// each into an Archive under a fixed LLM-call budget (spec §4.F).
package compiler

import (
	"sort"

	"codenerd/internal/phenotype"
)

// TrainingExample is one (inputs, expected) pair used to evaluate and
// evolve modules.
type TrainingExample struct {
	Inputs   map[string]any
	Expected map[string]any
}

// Config carries the compiler's knobs (spec §4.F: k_demos, n_inst, iters,
// and an LLM-call budget).
type Config struct {
	KDemos int
	NInst  int
	Iters  int
	Budget int
}

// DefaultConfig returns conservative defaults suitable for a quick
// compile pass.
func DefaultConfig() Config {
	return Config{KDemos: 3, NInst: 6, Iters: 10, Budget: 200}
}

// exampleResult is the per-training-example outcome of one evaluation.
type exampleResult struct {
	ok    bool
	score float64
	pheno phenotype.Phenotype
}

// evalResult aggregates an evaluation across a training set: mean score,
// representative (mean) phenotype, and the per-example breakdown used to
// drive meta-optimize's failing-example summary.
type evalResult struct {
	meanScore float64
	pheno     phenotype.Phenotype
	perExample []exampleResult
}

// percentile25 returns the 25th percentile of scores, 0 if scores is
// empty. Uses nearest-rank on a sorted copy.
func percentile25(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	idx := int(0.25 * float64(len(sorted)-1))
	return sorted[idx]
}

func meanPhenotype(phenos []phenotype.Phenotype) phenotype.Phenotype {
	if len(phenos) == 0 {
		return phenotype.Phenotype{}
	}
	var sum phenotype.Phenotype
	for _, p := range phenos {
		sum.Accuracy += p.Accuracy
		sum.Latency += p.Latency
		sum.Cost += p.Cost
		sum.Usage += p.Usage
	}
	n := float64(len(phenos))
	return phenotype.Phenotype{
		Accuracy: sum.Accuracy / n,
		Latency:  sum.Latency / n,
		Cost:     sum.Cost / n,
		Usage:    sum.Usage / n,
	}
}

func meanScore(results []exampleResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.score
	}
	return sum / float64(len(results))
}
