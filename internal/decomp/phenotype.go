// Package decomp implements the Geometric Decomposition Engine: a bounded
// task tree with a 5-dimensional explosion detector, a checkpoint/rollback
// stack, and priority-scaled resource limits (spec §4.G, §4.H).
package decomp

// Phenotype is the 5-dimensional decomposition phenotype: depth, breadth,
// accumulated cost, context size, and success rate. depth, breadth,
// accumulated_cost, context_size are ≥ 0; success_rate is in [0,1] (spec
// §3).
type Phenotype struct {
	Depth           int
	Breadth         int
	AccumulatedCost float64
	ContextSize     float64
	SuccessRate     float64
}

// Priority mirrors the orchestration Context's priority keywords that the
// limits table is keyed on (spec §4.G).
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Limits is the resource envelope a decomposition must stay within,
// scaled from a budget and a context-window limit by priority (spec
// §4.G).
type Limits struct {
	MaxDepth       int
	MaxBreadth     int
	MaxCost        float64
	MaxContext     float64
	MinSuccessRate float64
}

// limitsTable holds the priority -> (depth, breadth, cost-factor,
// context-factor, min-success-rate) rows from the spec's literal table.
// cost and context are expressed as multipliers against the caller's
// budget/ctxLimit, applied in LimitsForPriority.
var limitsTable = map[Priority]struct {
	maxDepth       int
	maxBreadth     int
	costFactor     float64
	contextFactor  float64
	minSuccessRate float64
}{
	PriorityCritical: {10, 20, 2.0, 1.5, 0.60},
	PriorityHigh:     {8, 15, 1.5, 1.0, 0.70},
	PriorityNormal:   {6, 10, 1.0, 0.8, 0.75},
	PriorityLow:      {4, 6, 0.5, 0.5, 0.80},
}

// defaultRow is used for any priority not in limitsTable (spec §4.G
// "(default)" row).
var defaultRow = struct {
	maxDepth       int
	maxBreadth     int
	costFactor     float64
	contextFactor  float64
	minSuccessRate float64
}{6, 10, 1.0, 1.0, 0.75}

// LimitsForPriority computes the Limits for a priority given a cost
// budget and a context-window limit (spec §4.G limits_for_priority).
func LimitsForPriority(priority Priority, budget, ctxLimit float64) Limits {
	row, ok := limitsTable[priority]
	if !ok {
		row = defaultRow
	}
	return Limits{
		MaxDepth:       row.maxDepth,
		MaxBreadth:     row.maxBreadth,
		MaxCost:        row.costFactor * budget,
		MaxContext:     row.contextFactor * ctxLimit,
		MinSuccessRate: row.minSuccessRate,
	}
}

// ExplosionReason names the dimension that triggered an explosion.
type ExplosionReason string

const (
	ExplosionDepth      ExplosionReason = "depth"
	ExplosionBreadth    ExplosionReason = "breadth"
	ExplosionCost       ExplosionReason = "cost"
	ExplosionContext    ExplosionReason = "context"
	ExplosionLowSuccess ExplosionReason = "low-success"
)

// DetectExplosion checks p against limits in the fixed, spec-mandated
// priority order depth, breadth, cost, context, low-success, returning
// the first exceeded dimension. The empty string/false means no
// explosion (spec §4.G detect_explosion).
func DetectExplosion(p Phenotype, limits Limits) (ExplosionReason, bool) {
	switch {
	case p.Depth > limits.MaxDepth:
		return ExplosionDepth, true
	case p.Breadth > limits.MaxBreadth:
		return ExplosionBreadth, true
	case p.AccumulatedCost > limits.MaxCost:
		return ExplosionCost, true
	case p.ContextSize > limits.MaxContext:
		return ExplosionContext, true
	case p.SuccessRate < limits.MinSuccessRate:
		return ExplosionLowSuccess, true
	default:
		return "", false
	}
}
