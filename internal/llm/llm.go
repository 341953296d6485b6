package llm

import (
	"context"
	"errors"

	"fitness-planner/internal/shared"
)

// ErrRateLimited is wrapped by clients when the provider (or the local
// limiter) refuses a call because of throttling.
var ErrRateLimited = errors.New("model provider rate limit exceeded")

// ChatRequest is a single system + user exchange sent to a model.
type ChatRequest struct {
	Model  string
	System string
	User   string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// ChatCompleter sends a chat-style completion request and returns the text
// produced by the model.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// IsRateLimited reports whether err signals provider throttling.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
