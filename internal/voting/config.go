// Package voting implements First-to-K consensus across parallel LLM
// samples, with red-flag reliability filtering of each sample before it
// is counted (spec §4.I).
package voting

import "time"

// Config is a voting round's shape: how many voters to spawn, how many
// matching votes win, how long to wait, and whether to decorrelate
// voters via varied temperature/seed.
type Config struct {
	NVoters     int
	KThreshold  int
	Timeout     time.Duration
	Decorrelate bool
}

// Preset configurations (spec §4.I voting configuration presets).
var (
	PresetNone     = Config{NVoters: 1, KThreshold: 1, Timeout: 30 * time.Second, Decorrelate: false}
	PresetLow      = Config{NVoters: 2, KThreshold: 2, Timeout: 45 * time.Second, Decorrelate: true}
	PresetMedium   = Config{NVoters: 3, KThreshold: 2, Timeout: 60 * time.Second, Decorrelate: true}
	PresetHigh     = Config{NVoters: 5, KThreshold: 3, Timeout: 90 * time.Second, Decorrelate: true}
	PresetCritical = Config{NVoters: 7, KThreshold: 4, Timeout: 120 * time.Second, Decorrelate: true}
)
