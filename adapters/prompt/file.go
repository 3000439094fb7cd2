package prompt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

// FilePrompt reads the system prompt from disk on every call so edits take
// effect without a restart.
type FilePrompt struct {
	path string
}

var _ repositories.PromptSource = (*FilePrompt)(nil)

// NewFilePrompt creates a prompt source backed by path
func NewFilePrompt(path string) *FilePrompt {
	return &FilePrompt{path: path}
}

// SystemPrompt implements repositories.PromptSource
func (p *FilePrompt) SystemPrompt(ctx context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", repositories.ErrPromptNotFound, p.path)
		}
		return "", fmt.Errorf("failed to read system prompt: %w", err)
	}
	return string(data), nil
}
