package compiler

import (
	"context"

	"codenerd/internal/module"
	"codenerd/internal/phenotype"
	"codenerd/internal/promptio"
	"codenerd/internal/scoring"
)

// evaluate runs m against every example in training, consuming one LLM
// call per example from budget. It stops early (exhausted=true) the
// moment the budget runs out, returning only the examples it managed to
// run; the caller discards an exhausted evaluation rather than inserting
// a partial result (spec §4.F step 5: "abort cleanly ... returning the
// archive built so far").
func evaluate(ctx context.Context, m *module.Module, training []TrainingExample, sender promptio.Sender, history []string, rules string, budget *llmBudget, scorer scoring.ExactScorer) (evalResult, bool) {
	results := make([]exampleResult, 0, len(training))

	for _, ex := range training {
		if !budget.allow() {
			return finalizeEval(results), true
		}

		prompt := promptio.Render(m, ex.Inputs, history, rules)
		text, usage, err := sender(ctx, prompt, m.Params)
		if err != nil {
			results = append(results, exampleResult{ok: false, score: 0.1})
			continue
		}

		run, parseErr := promptio.Parse(m, text, prompt, usage)
		if parseErr != nil {
			results = append(results, exampleResult{ok: false, score: 0.1})
			continue
		}

		score := scoring.Score(ex.Expected, run, scorer)
		pheno := scoring.Phenotype(run, score)
		results = append(results, exampleResult{ok: run.OK, score: score, pheno: pheno})
	}

	return finalizeEval(results), false
}

func finalizeEval(results []exampleResult) evalResult {
	perPheno := make([]phenotype.Phenotype, len(results))
	for i, r := range results {
		perPheno[i] = r.pheno
	}
	return evalResult{
		meanScore:  meanScore(results),
		pheno:      meanPhenotype(perPheno),
		perExample: results,
	}
}
