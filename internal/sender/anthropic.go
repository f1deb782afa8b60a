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

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const anthropicDefaultBaseURL = "https://api.anthropic.com/v1"

func newAnthropicSender(cfg config.LLMConfig, client *http.Client) promptio.Sender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	model := cfg.Model

	return func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		if cfg.APIKey == "" {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: API key not configured")
		}

		start := time.Now()
		reqBody := anthropicRequest{
			Model:       model,
			MaxTokens:   8192,
			Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
			Temperature: paramFloat(params, "temperature", 0.0),
		}
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/messages", bytes.NewReader(payload))
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", cfg.APIKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		logging.APIDebug("anthropic request model=%s prompt_len=%d", model, len(prompt))
		resp, err := client.Do(req)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			logging.APIError("anthropic request failed status=%d", resp.StatusCode)
			return "", promptio.Usage{}, fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, string(body))
		}

		var parsed anthropicResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: parse response: %w", err)
		}
		if parsed.Error != nil {
			return "", promptio.Usage{}, fmt.Errorf("anthropic: %s", parsed.Error.Message)
		}

		var text strings.Builder
		for _, block := range parsed.Content {
			if block.Type == "text" {
				text.WriteString(block.Text)
			}
		}

		usage := promptio.Usage{
			Model:            model,
			ElapsedMs:        time.Since(start).Milliseconds(),
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
		}
		logging.API("anthropic response elapsed_ms=%d prompt_tokens=%d completion_tokens=%d",
			usage.ElapsedMs, usage.PromptTokens, usage.CompletionTokens)
		return strings.TrimSpace(text.String()), usage, nil
	}
}
