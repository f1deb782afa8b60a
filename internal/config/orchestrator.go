package config

import "codenerd/internal/tools"

// OrchestratorConfig bounds the turn driver (spec §4.K): how many
// render/send/parse/tool-dispatch rounds a turn may take, and the default
// security level and sub-agent profile tool dispatch is gated under.
type OrchestratorConfig struct {
	MaxIterations int    `yaml:"max_iterations"`
	SecurityLevel int    `yaml:"security_level"`
	Profile       string `yaml:"profile"`
}

// DefaultOrchestratorConfig permits a handful of tool round-trips under a
// read-only, editor-scoped profile; raising SecurityLevel/Profile is an
// explicit per-deployment choice.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{MaxIterations: 6, SecurityLevel: int(tools.SecurityReadOnly), Profile: string(tools.ProfileEditor)}
}

// ToolsSecurityLevel returns the configured level as a tools.SecurityLevel.
func (o OrchestratorConfig) ToolsSecurityLevel() tools.SecurityLevel {
	return tools.SecurityLevel(o.SecurityLevel)
}

// ToolsProfile returns the configured profile as a tools.Profile.
func (o OrchestratorConfig) ToolsProfile() tools.Profile {
	return tools.Profile(o.Profile)
}
