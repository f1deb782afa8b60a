// Package phenotype implements the 4-dimensional performance coordinates
// used to locate a module variant in behavioral space, plus the geometric
// operations (normalization, distance, bounds) the archive's selector
// builds on.
package phenotype

import "math"

// Phenotype is a 4-tuple performance coordinate. Accuracy is 0-10, higher
// is better; Latency is milliseconds, lower is better; Cost is currency
// units, lower is better; Usage is tokens, lower is better.
type Phenotype struct {
	Accuracy float64
	Latency  float64
	Cost     float64
	Usage    float64
}

// components returns the four dimensions in a fixed, stable order.
func (p Phenotype) components() [4]float64 {
	return [4]float64{p.Accuracy, p.Latency, p.Cost, p.Usage}
}

func fromComponents(c [4]float64) Phenotype {
	return Phenotype{Accuracy: c[0], Latency: c[1], Cost: c[2], Usage: c[3]}
}

// Normalize maps each dimension of p into [0,1] given the observed mins and
// maxs. A zero-width range maps to 0.5 rather than dividing by zero.
func Normalize(p, mins, maxs Phenotype) Phenotype {
	pc, minc, maxc := p.components(), mins.components(), maxs.components()
	var out [4]float64
	for i := range pc {
		rng := maxc[i] - minc[i]
		if rng == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = (pc[i] - minc[i]) / rng
	}
	return fromComponents(out)
}

// Distance is the Euclidean distance between two phenotypes, assumed to
// already be in a comparable (typically normalized) space.
func Distance(a, b Phenotype) float64 {
	ac, bc := a.components(), b.components()
	var sum float64
	for i := range ac {
		d := ac[i] - bc[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Bounds returns the component-wise min and max across cloud. Calling
// Bounds on an empty cloud returns the zero Phenotype for both.
func Bounds(cloud []Phenotype) (mins, maxs Phenotype) {
	if len(cloud) == 0 {
		return Phenotype{}, Phenotype{}
	}

	minc := cloud[0].components()
	maxc := cloud[0].components()
	for _, p := range cloud[1:] {
		pc := p.components()
		for i := range pc {
			if pc[i] < minc[i] {
				minc[i] = pc[i]
			}
			if pc[i] > maxc[i] {
				maxc[i] = pc[i]
			}
		}
	}
	return fromComponents(minc), fromComponents(maxc)
}

// Keyword is a symbolic priority shorthand mapped to a target Phenotype for
// geometric selection (spec §6 keyword map).
type Keyword string

const (
	KeywordFast     Keyword = "fast"
	KeywordCheap    Keyword = "cheap"
	KeywordAccurate Keyword = "accurate"
	KeywordBest     Keyword = "best"
	KeywordConcise  Keyword = "concise"
	KeywordCompact  Keyword = "compact"
	KeywordVerbose  Keyword = "verbose"
)

// keywordTargets holds the normalized target vectors from the keyword map.
var keywordTargets = map[Keyword]Phenotype{
	KeywordFast:     {Accuracy: 5.0, Latency: 0.0, Cost: 0.5, Usage: 0.5},
	KeywordCheap:    {Accuracy: 5.0, Latency: 0.5, Cost: 0.0, Usage: 0.5},
	KeywordAccurate: {Accuracy: 10.0, Latency: 0.5, Cost: 0.5, Usage: 0.5},
	KeywordBest:     {Accuracy: 10.0, Latency: 0.5, Cost: 0.5, Usage: 0.5},
	KeywordConcise:  {Accuracy: 5.0, Latency: 0.5, Cost: 0.5, Usage: 0.0},
	KeywordCompact:  {Accuracy: 5.0, Latency: 0.5, Cost: 0.5, Usage: 0.0},
	KeywordVerbose:  {Accuracy: 5.0, Latency: 0.5, Cost: 0.5, Usage: 1.0},
}

// TargetFor looks up the target Phenotype for a keyword. The second return
// value is false when the keyword is not in the map.
func TargetFor(k Keyword) (Phenotype, bool) {
	t, ok := keywordTargets[k]
	return t, ok
}
