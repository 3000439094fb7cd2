package repositories

import "context"

// LargeLanguageModel abstracts any chat/LLM provider
type LargeLanguageModel interface {
	// Complete sends the messages in order and returns the model's reply text
	Complete(ctx context.Context, messages []ChatMessage, options CompletionOptions) (string, error)
}

// CompletionOptions are the generation parameters for a single call
type CompletionOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender
type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)
