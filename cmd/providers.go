package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/adapters/llm"
	"github.com/satriahrh/speakgenie/server/adapters/stt"
	"github.com/satriahrh/speakgenie/server/adapters/tts"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
	"github.com/satriahrh/speakgenie/server/internal/config"
)

func newSpeechToText(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.SpeechToText, func(), error) {
	switch cfg.STTProvider {
	case config.ProviderGoogle:
		google, err := stt.NewGoogleSpeechToText(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		return google, func() {
			if err := google.Close(); err != nil {
				logger.Warn("Failed to close speech client", zap.Error(err))
			}
		}, nil
	case config.ProviderGroq:
		groq, err := stt.NewGroqSpeechToText(stt.GroqConfig{
			APIKey:     cfg.GroqAPIKey,
			APIBaseURL: cfg.GroqAPIBaseURL,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return groq, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STT provider %q", cfg.STTProvider)
}

func newLanguageModel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.LargeLanguageModel, error) {
	switch cfg.ChatProvider {
	case config.ProviderGemini:
		return llm.NewGeminiLLM(ctx, llm.GeminiConfig{APIKey: cfg.GeminiAPIKey}, logger)
	case config.ProviderGroq:
		return llm.NewGroqLLM(llm.GroqConfig{
			APIKey:     cfg.GroqAPIKey,
			APIBaseURL: cfg.GroqAPIBaseURL,
		}, logger)
	}
	return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
}

func newTextToSpeech(cfg *config.Config, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch cfg.TTSProvider {
	case config.ProviderElevenLabs:
		elevenLabsConfig := tts.NewElevenLabsConfigFromEnv()
		elevenLabsConfig.APIKey = cfg.ElevenLabsAPIKey
		if err := tts.ValidateElevenLabsConfig(elevenLabsConfig); err != nil {
			return nil, err
		}
		return tts.NewElevenLabsTTS(elevenLabsConfig, logger)
	case config.ProviderGTTS:
		return tts.NewGTTS(tts.GTTSConfig{Language: cfg.TTSLanguage}, logger), nil
	}
	return nil, fmt.Errorf("unknown TTS provider %q", cfg.TTSProvider)
}
