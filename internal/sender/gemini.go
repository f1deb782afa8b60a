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

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newGeminiSender(cfg config.LLMConfig, client *http.Client) promptio.Sender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	model := cfg.Model

	return func(ctx context.Context, prompt string, params map[string]any) (string, promptio.Usage, error) {
		if cfg.APIKey == "" {
			return "", promptio.Usage{}, fmt.Errorf("gemini: API key not configured")
		}

		start := time.Now()
		reqBody := geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
			GenerationConfig: geminiGenerationConfig{
				Temperature: paramFloat(params, "temperature", 0.0),
			},
		}
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: marshal request: %w", err)
		}

		url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, model, cfg.APIKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		logging.APIDebug("gemini request model=%s prompt_len=%d", model, len(prompt))
		resp, err := client.Do(req)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			logging.APIError("gemini request failed status=%d", resp.StatusCode)
			return "", promptio.Usage{}, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, string(body))
		}

		var parsed geminiResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: parse response: %w", err)
		}
		if parsed.Error != nil {
			return "", promptio.Usage{}, fmt.Errorf("gemini: %s", parsed.Error.Message)
		}
		if len(parsed.Candidates) == 0 {
			return "", promptio.Usage{}, fmt.Errorf("gemini: no candidates returned")
		}

		var text strings.Builder
		for _, part := range parsed.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}

		usage := promptio.Usage{
			Model:            model,
			ElapsedMs:        time.Since(start).Milliseconds(),
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
		}
		logging.API("gemini response elapsed_ms=%d prompt_tokens=%d completion_tokens=%d",
			usage.ElapsedMs, usage.PromptTokens, usage.CompletionTokens)
		return strings.TrimSpace(text.String()), usage, nil
	}
}
