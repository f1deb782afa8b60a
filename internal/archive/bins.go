package archive

import (
	"fmt"
	"sort"

	"codenerd/internal/phenotype"
)

// CostBin, LatencyBin, and UsageBin are the three discrete alphabets a
// BinKey is drawn from (spec §6).
type CostBin string
type LatencyBin string
type UsageBin string

const (
	CostCheap   CostBin = "cheap"
	CostPremium CostBin = "premium"

	LatencyFast LatencyBin = "fast"
	LatencySlow LatencyBin = "slow"

	UsageCompact UsageBin = "compact"
	UsageVerbose UsageBin = "verbose"
)

// BinKey is the ordered (cost, latency, usage) coarse-label triple a
// module occupies in the archive's discrete index.
type BinKey struct {
	Cost    CostBin
	Latency LatencyBin
	Usage   UsageBin
}

// String renders a BinKey as a stable map-friendly identifier.
func (k BinKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Cost, k.Latency, k.Usage)
}

// thresholds holds the per-dimension medians binKeyFor thresholds against.
type thresholds struct {
	latency, cost, usage float64
}

// medianThresholds computes the median latency, cost, and usage across
// cloud. An empty cloud yields zero thresholds; callers should fall back
// to using the incoming phenotype's own values in that case.
func medianThresholds(cloud []phenotype.Phenotype) thresholds {
	if len(cloud) == 0 {
		return thresholds{}
	}

	latencies := make([]float64, len(cloud))
	costs := make([]float64, len(cloud))
	usages := make([]float64, len(cloud))
	for i, p := range cloud {
		latencies[i] = p.Latency
		costs[i] = p.Cost
		usages[i] = p.Usage
	}

	return thresholds{
		latency: median(latencies),
		cost:    median(costs),
		usage:   median(usages),
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// binKeyFor derives a BinKey from p given the calibrated thresholds. Cost
// and usage ties at the median resolve to the cheaper/more-compact label;
// latency ties resolve to slow. This asymmetry matches the spec §8 seed
// scenario S1 worked example, not a uniform left-bias rule.
func binKeyFor(p phenotype.Phenotype, th thresholds) BinKey {
	costBin := CostPremium
	if p.Cost <= th.cost {
		costBin = CostCheap
	}

	latencyBin := LatencySlow
	if p.Latency < th.latency {
		latencyBin = LatencyFast
	}

	usageBin := UsageVerbose
	if p.Usage <= th.usage {
		usageBin = UsageCompact
	}

	return BinKey{Cost: costBin, Latency: latencyBin, Usage: usageBin}
}
