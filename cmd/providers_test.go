package main

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/speakgenie/server/adapters/llm"
	"github.com/satriahrh/speakgenie/server/adapters/stt"
	"github.com/satriahrh/speakgenie/server/adapters/tts"
	"github.com/satriahrh/speakgenie/server/internal/config"
)

func TestProviders_DefaultSelection(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := &config.Config{
		GroqAPIKey:   "test-key",
		STTProvider:  config.ProviderGroq,
		ChatProvider: config.ProviderGroq,
		TTSProvider:  config.ProviderGTTS,
		TTSLanguage:  "en",
	}

	speechToText, closeSTT, err := newSpeechToText(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("newSpeechToText failed: %v", err)
	}
	defer closeSTT()
	if _, ok := speechToText.(*stt.GroqSpeechToText); !ok {
		t.Errorf("Expected Groq STT, got %T", speechToText)
	}

	languageModel, err := newLanguageModel(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("newLanguageModel failed: %v", err)
	}
	if _, ok := languageModel.(*llm.GroqLLM); !ok {
		t.Errorf("Expected Groq LLM, got %T", languageModel)
	}

	textToSpeech, err := newTextToSpeech(cfg, logger)
	if err != nil {
		t.Fatalf("newTextToSpeech failed: %v", err)
	}
	if _, ok := textToSpeech.(*tts.GTTS); !ok {
		t.Errorf("Expected gTTS, got %T", textToSpeech)
	}
}

func TestProviders_Errors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	cfg := &config.Config{TTSProvider: config.ProviderElevenLabs}
	if _, err := newTextToSpeech(cfg, logger); err == nil {
		t.Error("Expected error for ElevenLabs without an API key")
	}

	cfg = &config.Config{STTProvider: "unknown", ChatProvider: "unknown", TTSProvider: "unknown"}
	if _, _, err := newSpeechToText(context.Background(), cfg, logger); err == nil {
		t.Error("Expected error for unknown STT provider")
	}
	if _, err := newLanguageModel(context.Background(), cfg, logger); err == nil {
		t.Error("Expected error for unknown chat provider")
	}
	if _, err := newTextToSpeech(cfg, logger); err == nil {
		t.Error("Expected error for unknown TTS provider")
	}
}

func TestNewLogger_FollowsAppEnv(t *testing.T) {
	if logger := newLogger(&config.Config{AppEnv: "development"}); !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected debug logging in development")
	}
	if logger := newLogger(&config.Config{}); logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected production logger without APP_ENV")
	}
	if logger := newLogger(nil); logger == nil {
		t.Error("Expected a logger when configuration failed")
	}
}
