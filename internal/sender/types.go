// Package sender adapts real LLM HTTP transports into promptio.Sender
// closures, grounded on the teacher's internal/perception multi-provider
// client family.
package sender

import (
	"fmt"
	"net/http"
	"time"

	"codenerd/internal/config"
	"codenerd/internal/promptio"
)

// defaultTimeout is used when a config.LLMConfig.Timeout fails to parse.
const defaultTimeout = 120 * time.Second

// New builds a promptio.Sender for the configured provider. The returned
// Sender is stateless aside from its embedded *http.Client and carries no
// reference back to cfg.
func New(cfg config.LLMConfig) (promptio.Sender, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case "anthropic":
		return newAnthropicSender(cfg, client), nil
	case "openai", "zai", "xai", "openrouter":
		return newOpenAICompatSender(cfg, client), nil
	case "gemini":
		return newGeminiSender(cfg, client), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func paramFloat(params map[string]any, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return fallback
}
