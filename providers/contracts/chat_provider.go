package contracts

import "context"

// Message is one role-tagged entry in a chat conversation. The pipeline
// always sends exactly two: a system instruction and a user prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage carries the token counters a provider reported for one call.
// Any field may be zero when the provider does not report it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the result of one provider call. Empty content is valid
// content, not a failure.
type Completion struct {
	Content string
	Usage   *Usage
}

// ChatProvider abstracts a remote (or local) model inference endpoint.
// Complete must return an error on transient failure so the retry wrapper
// can react.
type ChatProvider interface {
	Complete(ctx context.Context, messages []Message) (*Completion, error)
	Name() string
	Model() string
}

// Tokenizer is optionally implemented by providers that can count tokens
// exactly; the accountant prefers it over the character heuristic.
type Tokenizer interface {
	CountTokens(text string) int
}
