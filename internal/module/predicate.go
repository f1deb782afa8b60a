package module

// PredicateKind is a tagged variant over the built-in validation predicates
// a signature field may declare. The source language carried arbitrary
// user predicates as closures; per spec §9 that is deliberately not
// preserved here, only this fixed set of kinds crosses the type boundary.
type PredicateKind string

const (
	PredicateString    PredicateKind = "string"
	PredicateNumber    PredicateKind = "number"
	PredicateBool      PredicateKind = "boolean"
	PredicateListOfStr PredicateKind = "list"
	PredicateJSON      PredicateKind = "json"
)

// Validate reports whether value satisfies the predicate kind.
func (k PredicateKind) Validate(value any) bool {
	switch k {
	case PredicateString:
		_, ok := value.(string)
		return ok
	case PredicateNumber:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		default:
			return false
		}
	case PredicateBool:
		_, ok := value.(bool)
		return ok
	case PredicateListOfStr:
		items, ok := value.([]any)
		if !ok {
			if strs, ok := value.([]string); ok {
				_ = strs
				return true
			}
			return false
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	case PredicateJSON:
		// Free-form JSON accepts any decoded value.
		return true
	default:
		return false
	}
}

// TypeName returns the semantic type name used when rendering a field
// declaration in a prompt (spec §4.C).
func (k PredicateKind) TypeName() string {
	switch k {
	case PredicateString:
		return "string"
	case PredicateNumber:
		return "number"
	case PredicateBool:
		return "boolean"
	case PredicateListOfStr:
		return "list"
	case PredicateJSON:
		return "json"
	default:
		return "json"
	}
}
