package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqConfig holds configuration for the Groq chat adapter.
// Groq exposes an OpenAI-compatible API, so any compatible endpoint works.
type GroqConfig struct {
	APIKey     string // Required
	APIBaseURL string // Optional: defaults to the Groq OpenAI-compatible endpoint
}

// GroqLLM implements LargeLanguageModel on top of the OpenAI-compatible chat completions API
type GroqLLM struct {
	client *openai.Client
	logger *zap.Logger
}

var _ repositories.LargeLanguageModel = (*GroqLLM)(nil)

// NewGroqLLM creates a new Groq chat client
func NewGroqLLM(config GroqConfig, logger *zap.Logger) (*GroqLLM, error) {
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

	return &GroqLLM{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

// Complete implements repositories.LargeLanguageModel
func (g *GroqLLM) Complete(ctx context.Context, messages []repositories.ChatMessage, options repositories.CompletionOptions) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       options.Model,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		Messages:    toOpenAIMessages(messages),
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		g.logger.Warn("Chat completion returned no choices", zap.String("model", options.Model))
		return "", nil
	}

	g.logger.Debug("Chat completion received",
		zap.String("model", resp.Model),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []repositories.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case repositories.SystemRole:
			role = openai.ChatMessageRoleSystem
		case repositories.AssistantRole:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}
