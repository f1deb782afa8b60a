package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"codenerd/internal/archive"
	"codenerd/internal/logging"
	"codenerd/internal/module"
	"codenerd/internal/promptio"
	"codenerd/internal/scoring"
)

// seedInstructions is the fixed minimum seed population of instruction
// mutations applied over the base module's instructions (spec §4.F step 2).
var seedInstructions = []string{
	"", // original, filled in with m0.Instructions at seed time
	"Be concise.",
	"Think step-by-step.",
	"Output STRICT JSON.",
	"Cite reasons.",
	"Prefer the simplest answer.",
}

// metaOptimizePrompt asks the sender to revise a module's instructions
// given a summary of its failing training examples (spec §4.F step 4.b).
const metaOptimizePrompt = `You are refining the instructions for a prompt module.

Current instructions:
%s

The module is underperforming on these training examples (index: reason):
%s

Respond with STRICT JSON containing exactly the keys "thought" and
"new_inst", where new_inst is the revised instructions text.`

// Compile runs the MAP-Elites compiler: bootstraps demos onto m0, seeds
// and evaluates an instruction-mutation population, then evolves elites
// for up to cfg.Iters generations under an LLM-call budget, returning the
// resulting Archive (spec §4.F).
func Compile(ctx context.Context, m0 *module.Module, training []TrainingExample, sender promptio.Sender, history []string, rules string, cfg Config, scorer scoring.ExactScorer) (*archive.Archive, error) {
	a := archive.New(m0.Signature)
	budget := newBudget(cfg.Budget)
	evalByID := make(map[string]evalResult)

	base := bootstrap(m0, training, cfg.KDemos)

	seeds := seedPopulation(base, cfg.NInst)
	for _, seed := range seeds {
		result, exhausted := evaluate(ctx, seed, training, sender, history, rules, budget, scorer)
		if exhausted {
			logging.CompilerDebug("budget exhausted during seed evaluation, returning archive as-is")
			ensureDefault(a, base)
			return a, nil
		}
		evalByID[seed.ID] = result
		a.Insert(seed, result.meanScore, result.pheno)
	}

	if a.Len() == 0 {
		// Zero successful evaluations: the bootstrap module stands alone
		// as the sole occupant of the default bin (spec §4.F failure
		// semantics).
		ensureDefault(a, base)
		return a, nil
	}

	for gen := 0; gen < cfg.Iters; gen++ {
		parent, ok := randomElite(a)
		if !ok {
			break
		}

		child, err := metaOptimize(ctx, parent, evalByID[parent.ID], sender, budget)
		if err != nil {
			logging.CompilerDebug("meta-optimize failed for generation %d: %v, skipping", gen, err)
			continue
		}
		if child == nil {
			// Budget exhausted mid-meta-optimize.
			logging.CompilerDebug("budget exhausted during generation %d, returning archive as-is", gen)
			return a, nil
		}

		result, exhausted := evaluate(ctx, child, training, sender, history, rules, budget, scorer)
		if exhausted {
			logging.CompilerDebug("budget exhausted evaluating generation %d child, returning archive as-is", gen)
			return a, nil
		}
		evalByID[child.ID] = result
		a.Insert(child, result.meanScore, result.pheno)
	}

	return a, nil
}

// bootstrap draws up to kDemos valid (inputs, expected) pairs from
// training and attaches them as m0's demonstrations. An invalid example
// (missing a declared signature field) is silently skipped (spec §4.F
// step 1).
func bootstrap(m0 *module.Module, training []TrainingExample, kDemos int) *module.Module {
	demos := make([]module.Demo, 0, kDemos)
	for _, ex := range training {
		if len(demos) >= kDemos {
			break
		}
		if !validExample(m0.Signature, ex) {
			continue
		}
		demo := make(module.Demo, len(ex.Inputs)+len(ex.Expected))
		for k, v := range ex.Inputs {
			demo[k] = v
		}
		for k, v := range ex.Expected {
			demo[k] = v
		}
		demos = append(demos, demo)
	}
	return m0.WithDemos(demos)
}

func validExample(sig *module.Signature, ex TrainingExample) bool {
	for _, f := range sig.Inputs {
		if _, ok := ex.Inputs[f.Name]; !ok {
			return false
		}
	}
	for _, f := range sig.Outputs {
		if _, ok := ex.Expected[f.Name]; !ok {
			return false
		}
	}
	return true
}

// seedPopulation generates the fixed instruction-mutation seeds, capped
// at nInst entries.
func seedPopulation(base *module.Module, nInst int) []*module.Module {
	variants := append([]string(nil), seedInstructions...)
	variants[0] = base.Instructions

	if nInst > 0 && nInst < len(variants) {
		variants = variants[:nInst]
	}

	seeds := make([]*module.Module, len(variants))
	for i, instructions := range variants {
		seeds[i] = base.WithInstructions(fmt.Sprintf("%s/seed-%d", base.ID, i), instructions)
	}
	return seeds
}

// randomElite picks a parent uniformly at random from the archive's
// current bin occupants (spec §4.F step 4.a).
func randomElite(a *archive.Archive) (*module.Module, bool) {
	elites := a.Elites()
	if len(elites) == 0 {
		return nil, false
	}
	return elites[rand.Intn(len(elites))], true
}

// metaOptimize asks the sender for revised instructions given the
// parent's failing training examples (ok=false or score below the
// parent's own 25th percentile), then returns a child module inheriting
// demos and params. A nil, nil return means the LLM budget was
// exhausted before the call could be made.
func metaOptimize(ctx context.Context, parent *module.Module, parentEval evalResult, sender promptio.Sender, budget *llmBudget) (*module.Module, error) {
	if !budget.allow() {
		return nil, nil
	}

	summary := failingSummary(parentEval)
	prompt := fmt.Sprintf(metaOptimizePrompt, parent.Instructions, summary)

	text, _, err := sender(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("meta-optimize sender failed: %w", err)
	}

	var resp struct {
		Thought string `json:"thought"`
		NewInst string `json:"new_inst"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("meta-optimize response parse failed: %w", err)
	}
	if resp.NewInst == "" {
		return nil, fmt.Errorf("meta-optimize response missing new_inst")
	}

	childID := fmt.Sprintf("%s/gen", parent.ID)
	return parent.WithInstructions(childID, resp.NewInst), nil
}

// failingSummary renders a textual index:reason listing of training
// examples the parent underperformed on: those with ok=false or a score
// below the 25th percentile of the parent's own per-example scores (spec
// §4.F step 4.b).
func failingSummary(parentEval evalResult) string {
	if len(parentEval.perExample) == 0 {
		return "(no prior evaluation on record)"
	}

	scores := make([]float64, len(parentEval.perExample))
	for i, r := range parentEval.perExample {
		scores[i] = r.score
	}
	p25 := percentile25(scores)

	s := ""
	for i, r := range parentEval.perExample {
		switch {
		case !r.ok:
			s += fmt.Sprintf("%d: failed (sender or parse error)\n", i)
		case r.score < p25:
			s += fmt.Sprintf("%d: low score %.2f (below 25th percentile %.2f)\n", i, r.score, p25)
		}
	}
	if s == "" {
		return "(no underperforming examples found)"
	}
	return s
}

func ensureDefault(a *archive.Archive, base *module.Module) {
	if a.Len() > 0 {
		return
	}
	a.Insert(base, 0.1, scoring.Phenotype(promptio.RunResult{}, 0.1))
}
