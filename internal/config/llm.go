package config

// LLMConfig configures the sender backing promptio.Sender: which provider
// to call, credentials, and the request timeout.
type LLMConfig struct {
	Provider string `yaml:"provider"` // zai, anthropic, openai, gemini, xai, openrouter
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"zai", "anthropic", "openai", "gemini", "xai", "openrouter"}
