package voting

import (
	"encoding/json"
	"strings"
)

// Flag names a red-flag category a sample was screened for (spec §4.I).
type Flag string

const (
	FlagLengthExplosion Flag = "length-explosion"
	FlagFormatViolation Flag = "format-violation"
	FlagLowConfidence   Flag = "low-confidence"
	FlagRepetition      Flag = "repetition"
	FlagIncoherence     Flag = "incoherence"
)

// Severity distinguishes flags that discard a sample outright from those
// that merely reduce its vote weight.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

var flagSeverity = map[Flag]Severity{
	FlagLengthExplosion: SeverityCritical,
	FlagFormatViolation: SeverityCritical,
	FlagIncoherence:     SeverityCritical,
	FlagLowConfidence:   SeverityWarning,
	FlagRepetition:      SeverityWarning,
}

// hedgeMarkers are case-insensitive substrings that count toward the
// low-confidence filter.
var hedgeMarkers = []string{"not sure", "might be", "cannot confirm"}

// ScreenConfig tunes the thresholds the red-flag filters apply.
type ScreenConfig struct {
	TokenCeiling      int
	HedgeCountCeiling int
	RepetitionRatio   float64
}

// DefaultScreenConfig matches the spec's implied defaults: a generous
// token ceiling, a small number of tolerated hedges, and the literal
// 0.4 trigram repetition ratio (spec §4.I).
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{TokenCeiling: 4000, HedgeCountCeiling: 2, RepetitionRatio: 0.4}
}

// ScreenResult is the outcome of screening one raw sample.
type ScreenResult struct {
	Flags  []Flag
	Weight float64 // 1.0 normally, 0.5 under a warning flag, 0 when discarded
}

// Discarded reports whether any critical flag fired.
func (r ScreenResult) Discarded() bool {
	for _, f := range r.Flags {
		if flagSeverity[f] == SeverityCritical {
			return true
		}
	}
	return false
}

// Screen applies all five red-flag filters to a raw sample (spec §4.I).
// requiredFields is the set of JSON keys a valid parse must contain.
func Screen(raw string, requiredFields []string, cfg ScreenConfig) ScreenResult {
	var flags []Flag

	if strings.TrimSpace(raw) == "" {
		flags = append(flags, FlagIncoherence)
		return ScreenResult{Flags: flags, Weight: 0}
	}

	if estimateTokens(raw) > cfg.TokenCeiling {
		flags = append(flags, FlagLengthExplosion)
	}

	if !validJSON(raw, requiredFields) {
		flags = append(flags, FlagFormatViolation)
	}

	weight := 1.0
	if countHedges(raw) > cfg.HedgeCountCeiling {
		flags = append(flags, FlagLowConfidence)
		weight = 0.5
	}

	if trigramRepetitionRatio(raw) > cfg.RepetitionRatio {
		flags = append(flags, FlagRepetition)
		weight = 0.5
	}

	result := ScreenResult{Flags: flags, Weight: weight}
	if result.Discarded() {
		result.Weight = 0
	}
	return result
}

// estimateTokens approximates token count by whitespace-separated words,
// adequate for a ceiling check without depending on a model-specific
// tokenizer.
func estimateTokens(s string) int {
	return len(strings.Fields(s))
}

func validJSON(raw string, requiredFields []string) bool {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return false
	}
	for _, f := range requiredFields {
		if _, ok := decoded[f]; !ok {
			return false
		}
	}
	return true
}

func countHedges(raw string) int {
	lower := strings.ToLower(raw)
	count := 0
	for _, marker := range hedgeMarkers {
		count += strings.Count(lower, marker)
	}
	return count
}

// trigramRepetitionRatio computes the fraction of word trigrams that are
// repeats of an earlier trigram in the same text.
func trigramRepetitionRatio(raw string) float64 {
	words := strings.Fields(raw)
	if len(words) < 3 {
		return 0
	}
	seen := make(map[string]int)
	total := 0
	repeats := 0
	for i := 0; i+3 <= len(words); i++ {
		tri := strings.Join(words[i:i+3], " ")
		seen[tri]++
		total++
		if seen[tri] > 1 {
			repeats++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(repeats) / float64(total)
}
