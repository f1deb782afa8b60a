package voting

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"codenerd/internal/logging"
)

// Sampler produces one raw voter sample for a given voter index, used to
// vary temperature/seed when Config.Decorrelate is set.
type Sampler func(ctx context.Context, voterIndex int) (string, error)

// Result is the outcome of a voting round.
type Result struct {
	Winner       string
	Votes        int
	TotalSamples int
	TimedOut     bool // true when no candidate reached KThreshold: the timeout elapsed or every voter finished
}

// sample is one voter's screened, canonicalized outcome.
type sample struct {
	voterIndex int
	canonical  string
	weight     float64
	discarded  bool
}

// Vote runs the first-to-K protocol: it spawns cfg.NVoters parallel
// samplings via sampler, screens and canonicalizes each as it arrives,
// and returns as soon as a canonical form accumulates ≥ cfg.KThreshold
// weighted votes, cancelling the rest. If the timeout elapses first, it
// returns the candidate with the most votes, breaking ties by earliest
// arrival (spec §4.I first-to-K protocol). The same fallback applies when
// every voter finishes before any candidate reaches the threshold.
func Vote(ctx context.Context, cfg Config, requiredFields []string, sampler Sampler) Result {
	roundCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	results := make(chan sample, cfg.NVoters)
	var wg sync.WaitGroup

	for i := 0; i < cfg.NVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			raw, err := sampler(roundCtx, idx)
			if err != nil {
				logging.VotingDebug("voter %d cancelled or failed: %v", idx, err)
				return
			}

			screened := Screen(raw, requiredFields, DefaultScreenConfig())
			if screened.Discarded() {
				logging.VotingDebug("voter %d discarded: flags=%v", idx, screened.Flags)
				select {
				case results <- sample{voterIndex: idx, discarded: true}:
				case <-roundCtx.Done():
				}
				return
			}

			canonical := canonicalize(raw)
			select {
			case results <- sample{voterIndex: idx, canonical: canonical, weight: screened.Weight}:
			case <-roundCtx.Done():
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	tally := make(map[string]float64)
	order := make(map[string]int) // canonical -> first-arrival voter index
	total := 0

	for {
		select {
		case s, ok := <-results:
			if !ok {
				return tallyWinner(tally, order, total, true)
			}
			if s.discarded {
				continue
			}
			total++
			tally[s.canonical] += s.weight
			if _, seen := order[s.canonical]; !seen {
				order[s.canonical] = s.voterIndex
			}
			if tally[s.canonical] >= float64(cfg.KThreshold) {
				cancel()
				return Result{Winner: s.canonical, Votes: int(tally[s.canonical]), TotalSamples: total}
			}
		case <-roundCtx.Done():
			return tallyWinner(tally, order, total, true)
		}
	}
}

func tallyWinner(tally map[string]float64, order map[string]int, total int, timedOut bool) Result {
	if len(tally) == 0 {
		return Result{TotalSamples: total, TimedOut: timedOut}
	}

	type candidate struct {
		canonical string
		votes     float64
		arrival   int
	}
	candidates := make([]candidate, 0, len(tally))
	for c, v := range tally {
		candidates = append(candidates, candidate{canonical: c, votes: v, arrival: order[c]})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].votes != candidates[j].votes {
			return candidates[i].votes > candidates[j].votes
		}
		return candidates[i].arrival < candidates[j].arrival
	})

	best := candidates[0]
	return Result{Winner: best.canonical, Votes: int(best.votes), TotalSamples: total, TimedOut: timedOut}
}

// canonicalize normalizes a raw sample to a comparable form: JSON-decode
// then re-encode with keys in sorted order, so semantically identical
// responses compare equal regardless of formatting (spec §4.I "normalize
// to a comparable form").
func canonicalize(raw string) string {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	out, err := json.Marshal(sortedMap(decoded))
	if err != nil {
		return raw
	}
	return string(out)
}

// sortedMap is a passthrough: encoding/json already marshals map keys in
// sorted order, which is what gives canonicalize its stability.
func sortedMap(m map[string]any) map[string]any {
	return m
}
