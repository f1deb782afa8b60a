package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"codenerd/internal/logging"
	"codenerd/internal/module"
	"codenerd/internal/phenotype"
	"codenerd/internal/promptio"
)

// interpretPriorityPrompt instructs the sender to return a JSON object
// describing a free-form priority string as weights in [0,1] (spec §4.D).
const interpretPriorityPrompt = `Interpret the following priority description and respond with STRICT JSON
containing exactly the keys "accuracy", "speed", "cost", "brevity", each a
number between 0.0 and 1.0 describing how much the description values that
dimension.

Priority: %s`

// centroidFallback is the target used when interpret-priority fails to
// parse a usable response.
var centroidFallback = phenotype.Phenotype{Accuracy: 5, Latency: 0.5, Cost: 0.5, Usage: 0.5}

// Select picks a Module from the archive under the given priority string,
// which is either a keyword from the keyword map or a free-form
// description interpreted via sender. cache may be nil, in which case no
// memoization occurs (spec §4.D, §9).
func Select(ctx context.Context, a *Archive, priority string, sender promptio.Sender, cache *PriorityCache) (*module.Module, error) {
	cloud := a.snapshotCloud()
	if len(cloud) == 0 {
		return nil, ErrArchiveEmpty
	}

	if priority == "best" {
		m, ok := a.DefaultModule()
		if !ok {
			return nil, ErrArchiveEmpty
		}
		return m, nil
	}

	normalized := normalizedPhenotypes(cloud)

	if target, ok := phenotype.TargetFor(phenotype.Keyword(priority)); ok {
		return nearestNeighbor(cloud, normalized, target), nil
	}

	target, err := interpretPriority(ctx, priority, sender, cache)
	if err != nil {
		logging.ArchiveDebug("interpret-priority failed for %q: %v, using centroid fallback", priority, err)
		target = centroidFallback
	}
	return nearestNeighbor(cloud, normalized, target), nil
}

// normalizedPhenotypes normalizes latency, cost, and usage across the
// cloud's observed bounds while leaving accuracy on its natural 0-10
// scale: the keyword target table (spec §6) expresses accuracy directly
// (5.0/10.0) but latency/cost/usage as fractions in [0,1], so only those
// three dimensions are comparable after normalization.
func normalizedPhenotypes(cloud []cloudEntry) []phenotype.Phenotype {
	raw := make([]phenotype.Phenotype, len(cloud))
	for i, e := range cloud {
		raw[i] = e.phenotype
	}
	mins, maxs := phenotype.Bounds(raw)

	out := make([]phenotype.Phenotype, len(cloud))
	for i, p := range raw {
		n := phenotype.Normalize(p, mins, maxs)
		n.Accuracy = p.Accuracy
		out[i] = n
	}
	return out
}

// interpretPriority resolves a free-form priority string to a target
// Phenotype via the LLM sender, consulting and populating cache by exact
// string match.
func interpretPriority(ctx context.Context, priority string, sender promptio.Sender, cache *PriorityCache) (phenotype.Phenotype, error) {
	if cache != nil {
		if target, ok := cache.Get(priority); ok {
			return target, nil
		}
	}

	if sender == nil {
		return phenotype.Phenotype{}, fmt.Errorf("no sender configured for priority interpretation")
	}

	prompt := fmt.Sprintf(interpretPriorityPrompt, priority)
	text, _, err := sender(ctx, prompt, nil)
	if err != nil {
		return phenotype.Phenotype{}, fmt.Errorf("sender failed: %w", err)
	}

	var weights struct {
		Accuracy float64 `json:"accuracy"`
		Speed    float64 `json:"speed"`
		Cost     float64 `json:"cost"`
		Brevity  float64 `json:"brevity"`
	}
	if err := json.Unmarshal([]byte(text), &weights); err != nil {
		return phenotype.Phenotype{}, fmt.Errorf("failed to parse interpretation: %w", err)
	}

	target := phenotype.Phenotype{
		Accuracy: 10 * weights.Accuracy,
		Latency:  1 - weights.Speed,
		Cost:     1 - weights.Cost,
		Usage:    1 - weights.Brevity,
	}

	if cache != nil {
		cache.Put(priority, target)
	}

	return target, nil
}

// nearestNeighbor returns the module whose normalized phenotype is
// geometrically closest to target, breaking ties by higher accuracy then
// lower cost (using the original, unnormalized values for the tie-break
// so it reflects real-world magnitudes).
func nearestNeighbor(cloud []cloudEntry, normalized []phenotype.Phenotype, target phenotype.Phenotype) *module.Module {
	bestIdx := 0
	bestDist := phenotype.Distance(normalized[0], target)

	for i := 1; i < len(cloud); i++ {
		d := phenotype.Distance(normalized[i], target)
		switch {
		case d < bestDist:
			bestIdx, bestDist = i, d
		case d == bestDist:
			cur := cloud[bestIdx].phenotype
			cand := cloud[i].phenotype
			if cand.Accuracy > cur.Accuracy {
				bestIdx = i
			} else if cand.Accuracy == cur.Accuracy && cand.Cost < cur.Cost {
				bestIdx = i
			}
		}
	}

	return cloud[bestIdx].module
}
