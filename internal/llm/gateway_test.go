package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitness-planner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGatewayClient(&config.Config{
		GatewayURL:    srv.URL,
		GatewayAPIKey: "secret",
		ModelTimeout:  5 * time.Second,
	})
}

func TestGatewayClient_Complete(t *testing.T) {
	var got chatCompletionRequest
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "google/gemini-2.5-flash",
			"choices": [{"message": {"role": "assistant", "content": "[]"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`))
	})

	resp, err := client.Complete(context.Background(), ChatRequest{
		Model:  "google/gemini-2.5-flash",
		System: "You are a certified nutritionist.",
		User:   "Generate a plan",
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", resp.Content)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.Equal(t, "google/gemini-2.5-flash", resp.Usage.Model)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are a certified nutritionist.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "google/gemini-2.5-flash", got.Model)
}

func TestGatewayClient_RateLimited(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestGatewayClient_ServerError(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "status=500")
}

func TestGatewayClient_NoChoices(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, "no content generated", err.Error())
}
