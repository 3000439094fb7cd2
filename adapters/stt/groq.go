package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqConfig holds configuration for the Groq Whisper adapter
type GroqConfig struct {
	APIKey     string // Required
	APIBaseURL string // Optional: any OpenAI-compatible endpoint
}

// GroqSpeechToText implements SpeechToText with Whisper models served by Groq
type GroqSpeechToText struct {
	client *openai.Client
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GroqSpeechToText)(nil)

// NewGroqSpeechToText creates a new Groq Whisper client
func NewGroqSpeechToText(config GroqConfig, logger *zap.Logger) (*GroqSpeechToText, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	baseURL := config.APIBaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", baseURL))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = baseURL

	return &GroqSpeechToText{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

// TranscribeFile implements repositories.SpeechToText
func (g *GroqSpeechToText) TranscribeFile(ctx context.Context, file repositories.AudioFile, model string) (string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		Reader:   f,
		FilePath: filepath.Base(file.Path),
		Language: file.Language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	g.logger.Debug("Transcription received",
		zap.String("model", model),
		zap.Int("textLength", len(resp.Text)))

	return resp.Text, nil
}
