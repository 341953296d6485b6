// Package shared holds the model-call accounting passed from the model
// clients through the planner to the usage store.
package shared

import (
	"fmt"
	"time"
)

// TokenUsage is what a provider reported for one completion. The tags match
// the OpenAI-compatible usage object so gateway replies decode straight into it.
type TokenUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model,omitempty"`
}

// Total returns TotalTokens, falling back to prompt plus completion when the
// provider left it out.
func (u TokenUsage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// Reported is false when the provider returned no prompt or completion counts.
func (u TokenUsage) Reported() bool {
	return u.PromptTokens > 0 || u.CompletionTokens > 0
}

// AgentMeta describes one model call made during a generation.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

func (m AgentMeta) String() string {
	return fmt.Sprintf("%s: %d prompt / %d completion tokens in %s",
		m.AgentName, m.Usage.PromptTokens, m.Usage.CompletionTokens, m.Latency.Round(time.Millisecond))
}
