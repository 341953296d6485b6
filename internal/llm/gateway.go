package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitness-planner/internal/config"
	"fitness-planner/internal/shared"
)

const defaultGatewayTimeout = 30 * time.Second

// GatewayClient talks to an OpenAI-compatible chat completions endpoint
// (Groq, the Lovable AI gateway, OpenRouter, ...).
type GatewayClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewGatewayClient creates a new chat completions client.
func NewGatewayClient(cfg *config.Config) *GatewayClient {
	timeout := cfg.ModelTimeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &GatewayClient{
		apiURL: cfg.GatewayURL,
		apiKey: cfg.GatewayAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage shared.TokenUsage `json:"usage"`
}

// Complete sends the system and user messages to the gateway and returns the
// generated text.
func (c *GatewayClient) Complete(ctx context.Context, req ChatRequest) (ContentResponse, error) {
	body := chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		return ContentResponse{}, fmt.Errorf("%w: gateway returned 429 (retry-after=%q)", ErrRateLimited, retryAfter)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ContentResponse{}, fmt.Errorf("gateway api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	usage := out.Usage
	usage.Model = out.Model
	if usage.Model == "" {
		usage.Model = req.Model
	}

	return ContentResponse{
		Content: out.Choices[0].Message.Content,
		Usage:   usage,
	}, nil
}
