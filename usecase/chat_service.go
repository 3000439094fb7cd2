package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

const scenarioInstruction = "Stay in character and use everyday, kid-friendly language."

// ChatService produces one tutor reply per learner utterance
type ChatService struct {
	llm     repositories.LargeLanguageModel
	prompt  repositories.PromptSource
	options repositories.CompletionOptions
	logger  *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	llm repositories.LargeLanguageModel,
	prompt repositories.PromptSource,
	options repositories.CompletionOptions,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		llm:     llm,
		prompt:  prompt,
		options: options,
		logger:  logger,
	}
}

// BuildSystemPrompt appends the scenario block to the static prompt.
// Without a scenario the static prompt is returned unchanged.
func BuildSystemPrompt(static, scenario string) string {
	if scenario == "" {
		return static
	}
	return static + "\n\nScenario: " + scenario + "\n" + scenarioInstruction
}

// Reply validates the utterance, builds the system prompt, and asks the
// model for a reply.
func (s *ChatService) Reply(ctx context.Context, req domain.ChatRequest) (string, error) {
	userText := strings.TrimSpace(req.UserText)
	if userText == "" {
		return "", domain.ClientError(domain.CodeEmptyUserText, "user_text required")
	}

	static, err := s.prompt.SystemPrompt(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrPromptNotFound) {
			s.logger.Error("System prompt missing", zap.Error(err))
			return "", domain.ServerError(domain.CodePromptMissing, "Tutor system prompt not found.", nil)
		}
		return "", domain.ServerError(domain.CodePromptUnreadable, "Tutor system prompt unreadable", err)
	}

	messages := []repositories.ChatMessage{
		{Role: repositories.SystemRole, Content: BuildSystemPrompt(static, req.Scenario)},
		{Role: repositories.UserRole, Content: userText},
	}

	s.logger.Info("Requesting chat completion",
		zap.String("model", s.options.Model),
		zap.String("scenario", req.Scenario),
		zap.Int("userTextLength", len(userText)))

	reply, err := s.llm.Complete(ctx, messages, s.options)
	if err != nil {
		s.logger.Error("Chat provider failed", zap.Error(err))
		return "", domain.ServerError(domain.CodeChatFailed, "Chat failed", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", domain.ServerError(domain.CodeEmptyReply, "Empty reply from model.", nil)
	}

	return reply, nil
}
