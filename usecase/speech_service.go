package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

// SpeechService turns text into audio held in memory
type SpeechService struct {
	textToSpeech repositories.TextToSpeech
	language     string
	logger       *zap.Logger
}

// NewSpeechService creates a new speech synthesis service
func NewSpeechService(tts repositories.TextToSpeech, language string, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		textToSpeech: tts,
		language:     language,
		logger:       logger,
	}
}

// Synthesize validates the text and returns the synthesized clip.
// Voice and Format are forwarded as hints; unsupported values are not rejected.
func (s *SpeechService) Synthesize(ctx context.Context, req domain.SynthesisRequest) (*repositories.Audio, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.ClientError(domain.CodeEmptyText, "text is required")
	}

	audio, err := s.textToSpeech.Synthesize(ctx, text, repositories.VoiceConfig{
		Voice:    req.Voice,
		Format:   req.Format,
		Language: s.language,
	})
	if err != nil {
		s.logger.Error("Speech synthesis failed", zap.Error(err))
		return nil, domain.ServerError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}

	s.logger.Info("TTS completed", zap.Int("audioSize", len(audio.Data)))
	return audio, nil
}
