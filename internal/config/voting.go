package config

import (
	"fmt"
	"time"

	"codenerd/internal/voting"
)

// VotingConfig names which preset (spec §4.I) governs a voting round, with
// optional overrides. An empty Preset falls back to "none".
type VotingConfig struct {
	Preset      string `yaml:"preset"`
	TimeoutMs   int    `yaml:"timeout_ms,omitempty"`
	Decorrelate *bool  `yaml:"decorrelate,omitempty"`
}

// Resolve looks up the named preset and applies any overrides.
func (v VotingConfig) Resolve() (voting.Config, error) {
	var cfg voting.Config
	switch v.Preset {
	case "", "none":
		cfg = voting.PresetNone
	case "low":
		cfg = voting.PresetLow
	case "medium":
		cfg = voting.PresetMedium
	case "high":
		cfg = voting.PresetHigh
	case "critical":
		cfg = voting.PresetCritical
	default:
		return voting.Config{}, fmt.Errorf("unknown voting preset: %s", v.Preset)
	}

	if v.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(v.TimeoutMs) * time.Millisecond
	}
	if v.Decorrelate != nil {
		cfg.Decorrelate = *v.Decorrelate
	}
	return cfg, nil
}
