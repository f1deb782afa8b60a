package config

import "codenerd/internal/compiler"

// CompilerConfig configures the MAP-Elites compiler (spec §4.F).
type CompilerConfig struct {
	KDemos int `yaml:"k_demos"`
	NInst  int `yaml:"n_instructions"`
	Iters  int `yaml:"iterations"`
	Budget int `yaml:"llm_budget"`
}

// DefaultCompilerConfig mirrors compiler.DefaultConfig so the shipped
// config.yaml documents the same defaults the compiler falls back to.
func DefaultCompilerConfig() CompilerConfig {
	d := compiler.DefaultConfig()
	return CompilerConfig{KDemos: d.KDemos, NInst: d.NInst, Iters: d.Iters, Budget: d.Budget}
}

// ToCompilerConfig converts the loaded config into the shape compiler.Compile expects.
func (c CompilerConfig) ToCompilerConfig() compiler.Config {
	return compiler.Config{KDemos: c.KDemos, NInst: c.NInst, Iters: c.Iters, Budget: c.Budget}
}
