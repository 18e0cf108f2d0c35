package domain

import "context"

// Narrator is the narrative-writing contract shared between the summarizer
// transport and its decorators.
type Narrator interface {
	Narrate(ctx context.Context, digest string) (Narrative, error)
}

// HealthChecker verifies narrative provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Narrative carries the generated text and its token usage through the decorator chain.
type Narrative struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
