package config

import (
	"path/filepath"
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-groq-key")
	for _, key := range []string{
		"GROQ_API_BASE_URL", "STT_MODEL", "CHAT_MODEL", "CHAT_TEMPERATURE",
		"CHAT_MAX_TOKENS", "TTS_RESPONSE_FORMAT", "STT_PROVIDER", "CHAT_PROVIDER",
		"TTS_PROVIDER", "MEDIA_DIR", "PROMPT_PATH", "CORS_ALLOW_ORIGIN", "PORT",
		"TTS_LANGUAGE", "STT_LANGUAGE", "GEMINI_API_KEY", "ELEVEN_LABS_API_KEY", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("GROQ_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when GROQ_API_KEY is not set")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.STTModel != defaultSTTModel {
		t.Errorf("Expected STT model '%s', got '%s'", defaultSTTModel, cfg.STTModel)
	}
	if cfg.ChatModel != defaultChatModel {
		t.Errorf("Expected chat model '%s', got '%s'", defaultChatModel, cfg.ChatModel)
	}
	if cfg.ChatTemperature != float32(defaultChatTemperature) {
		t.Errorf("Expected temperature %v, got %v", defaultChatTemperature, cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != defaultChatMaxTokens {
		t.Errorf("Expected max tokens %d, got %d", defaultChatMaxTokens, cfg.ChatMaxTokens)
	}
	if cfg.TTSResponseFormat != "mp3" {
		t.Errorf("Expected TTS format 'mp3', got '%s'", cfg.TTSResponseFormat)
	}
	if cfg.AllowOrigin != "http://localhost:3000" {
		t.Errorf("Expected allowed origin 'http://localhost:3000', got '%s'", cfg.AllowOrigin)
	}
	if cfg.STTLanguage != "" {
		t.Errorf("Expected no STT language hint, got '%s'", cfg.STTLanguage)
	}
	if cfg.STTDir() != filepath.Join("media", "stt") {
		t.Errorf("Unexpected STT dir '%s'", cfg.STTDir())
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CHAT_TEMPERATURE", "0.2")
	t.Setenv("CHAT_MAX_TOKENS", "64")
	t.Setenv("TTS_RESPONSE_FORMAT", "WAV")
	t.Setenv("CHAT_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("STT_LANGUAGE", "en")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChatTemperature != float32(0.2) {
		t.Errorf("Expected temperature 0.2, got %v", cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != 64 {
		t.Errorf("Expected max tokens 64, got %d", cfg.ChatMaxTokens)
	}
	if cfg.TTSResponseFormat != "wav" {
		t.Errorf("Expected lower-cased format 'wav', got '%s'", cfg.TTSResponseFormat)
	}
	if cfg.ChatModel != "llama-3.3-70b-versatile" {
		t.Errorf("Unexpected chat model '%s'", cfg.ChatModel)
	}
	if cfg.STTLanguage != "en" {
		t.Errorf("Expected STT language 'en', got '%s'", cfg.STTLanguage)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("Expected app env 'development', got '%s'", cfg.AppEnv)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"temperature not a number", "CHAT_TEMPERATURE", "warm"},
		{"max tokens not a number", "CHAT_MAX_TOKENS", "many"},
		{"max tokens zero", "CHAT_MAX_TOKENS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_ProviderSelection(t *testing.T) {
	setRequired(t)
	t.Setenv("CHAT_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error when gemini is selected without GEMINI_API_KEY")
	}

	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("TTS_PROVIDER", "ElevenLabs")
	t.Setenv("ELEVEN_LABS_API_KEY", "test-eleven-key")
	t.Setenv("STT_PROVIDER", "google")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TTSProvider != ProviderElevenLabs {
		t.Errorf("Expected provider '%s', got '%s'", ProviderElevenLabs, cfg.TTSProvider)
	}
	if cfg.ChatModel != defaultGeminiChatModel {
		t.Errorf("Expected gemini default model '%s', got '%s'", defaultGeminiChatModel, cfg.ChatModel)
	}

	t.Setenv("CHAT_MODEL", "gemini-2.5-flash")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ChatModel != "gemini-2.5-flash" {
		t.Errorf("Expected explicit model to win, got '%s'", cfg.ChatModel)
	}

	t.Setenv("CHAT_MODEL", "llama-3.1-8b-instant")
	if _, err := Load(); err == nil {
		t.Error("Expected error for a llama model with gemini")
	}
	t.Setenv("CHAT_MODEL", "")

	t.Setenv("STT_PROVIDER", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unknown STT provider")
	}
}
