package config

// LoggingConfig mirrors the shape internal/logging reads out of
// .codenerd/config.json, duplicated here (rather than imported) to avoid a
// circular import between config and logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
}

// DefaultLoggingConfig leaves debug logging off; enabling it is an
// explicit per-deployment choice (spec: ambient logging, not observability
// scope excluded by any Non-goal).
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{DebugMode: false, Level: "info"}
}
