package repositories

import (
	"context"
	"errors"
)

// ErrPromptNotFound is returned when the static system prompt does not exist
var ErrPromptNotFound = errors.New("system prompt not found")

// PromptSource provides the static system prompt
type PromptSource interface {
	// SystemPrompt returns the current prompt text. It is read on every call.
	SystemPrompt(ctx context.Context) (string, error)
}
