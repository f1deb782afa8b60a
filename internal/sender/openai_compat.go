package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codenerd/internal/config"
	"codenerd/internal/logging"
	"codenerd/internal/promptio"
)

// openAICompatDefaultBaseURLs maps the providers sharing the OpenAI
// chat-completions wire format to their default endpoints.
var openAICompatDefaultBaseURLs = map[string]string{
	"openai":     "https://api.openai.com/v1",
	"zai":        "https://api.z.ai/api/coding/paas/v4",
	"xai":        "https://api.x.ai/v1",
	"openrouter": "https://openrouter.ai/api/v1",
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// newOpenAICompatSender covers openai, zai, xai, and openrouter: all four
// speak the same /chat/completions wire format, differing only in base
// URL and (for openrouter) an attribution header.
func newOpenAICompatSender(cfg config.LLMConfig, client *http.Client) promptio.Sender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAICompatDefaultBaseURLs[cfg.Provider]
	}
	provider := cfg.Provider
	model := cfg.Model

	return func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		if cfg.APIKey == "" {
			return "", promptio.Usage{}, fmt.Errorf("%s: API key not configured", provider)
		}

		start := time.Now()
		reqBody := openAIRequest{
			Model:       model,
			Messages:    []openAIMessage{{Role: "user", Content: prompt}},
			MaxTokens:   8192,
			Temperature: paramFloat(params, "temperature", 0.0),
		}
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: marshal request: %w", provider, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: build request: %w", provider, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
		if provider == "openrouter" {
			req.Header.Set("HTTP-Referer", "https://codenerd.local")
			req.Header.Set("X-Title", "codenerd")
		}

		logging.APIDebug("%s request model=%s prompt_len=%d", provider, model, len(prompt))
		resp, err := client.Do(req)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: request failed: %w", provider, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: read response: %w", provider, err)
		}
		if resp.StatusCode != http.StatusOK {
			logging.APIError("%s request failed status=%d", provider, resp.StatusCode)
			return "", promptio.Usage{}, fmt.Errorf("%s: status %d: %s", provider, resp.StatusCode, string(body))
		}

		var parsed openAIResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: parse response: %w", provider, err)
		}
		if parsed.Error != nil {
			return "", promptio.Usage{}, fmt.Errorf("%s: %s", provider, parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return "", promptio.Usage{}, fmt.Errorf("%s: no choices returned", provider)
		}

		usage := promptio.Usage{
			Model:            model,
			ElapsedMs:        time.Since(start).Milliseconds(),
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
		}
		logging.API("%s response elapsed_ms=%d prompt_tokens=%d completion_tokens=%d",
			provider, usage.ElapsedMs, usage.PromptTokens, usage.CompletionTokens)
		return strings.TrimSpace(parsed.Choices[0].Message.Content), usage, nil
	}
}
