package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
	"github.com/satriahrh/speakgenie/server/internal/scratch"
)

// MinAudioBytes is the smallest upload treated as real audio
const MinAudioBytes = 10

// TranscriptionConfig holds the settings the transcription flow needs
type TranscriptionConfig struct {
	Model    string
	Dir      string // where uploads are parked during the provider call
	Language string // optional hint passed to the provider
}

// TranscriptionService turns uploaded audio into text
type TranscriptionService struct {
	speechToText repositories.SpeechToText
	config       TranscriptionConfig
	logger       *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(stt repositories.SpeechToText, config TranscriptionConfig, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		speechToText: stt,
		config:       config,
		logger:       logger,
	}
}

// Transcribe validates the upload, parks it in a uniquely named temp file,
// and asks the provider for a transcript. The temp file is removed on every
// return path.
func (s *TranscriptionService) Transcribe(ctx context.Context, req domain.TranscriptionRequest) (string, error) {
	file := scratch.New(s.config.Dir, scratch.AudioExtension(req.Filename), s.logger)
	defer file.Remove()

	if len(req.Data) < MinAudioBytes {
		return "", domain.ClientError(domain.CodeEmptyAudio, "Empty audio upload")
	}

	if err := file.Write(req.Data); err != nil {
		return "", domain.ServerError(domain.CodeTranscriptionFailed, "STT failed", err)
	}

	s.logger.Info("Transcribing audio",
		zap.String("filename", req.Filename),
		zap.String("extension", file.Extension),
		zap.Int("audioSize", len(req.Data)))

	text, err := s.speechToText.TranscribeFile(ctx, repositories.AudioFile{
		Path:      file.Path,
		Extension: file.Extension,
		Language:  s.config.Language,
	}, s.config.Model)
	if err != nil {
		s.logger.Error("Transcription provider failed", zap.Error(err))
		return "", domain.ServerError(domain.CodeTranscriptionFailed, "STT failed", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ClientError(domain.CodeEmptyTranscription, "Empty transcription")
	}

	s.logger.Info("Transcription completed", zap.Int("textLength", len(text)))
	return text, nil
}
