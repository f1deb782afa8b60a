package config

// DecompositionConfig supplies the two scaling inputs the decomposition
// engine's limits table needs: the overall task cost budget and the
// model's context window, in tokens (spec §4.G limits_for_priority).
type DecompositionConfig struct {
	Budget       float64 `yaml:"budget"`
	ContextLimit float64 `yaml:"context_limit"`
}

// DefaultDecompositionConfig mirrors the limits table's own scaling
// assumptions: a modest dollar budget and a 128k-token context window.
func DefaultDecompositionConfig() DecompositionConfig {
	return DecompositionConfig{Budget: 5.0, ContextLimit: 128000}
}
