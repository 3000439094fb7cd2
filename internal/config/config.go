package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultGroqBaseURL       = "https://api.groq.com/openai/v1"
	defaultSTTModel          = "whisper-large-v3-turbo"
	defaultChatModel         = "llama-3.1-8b-instant"
	defaultGeminiChatModel   = "gemini-2.0-flash"
	defaultChatTemperature   = 0.7
	defaultChatMaxTokens     = 200
	defaultTTSResponseFormat = "mp3"
	defaultTTSLanguage       = "en"
	defaultMediaDir          = "media"
	defaultPromptPath        = "prompts/tutor_system.txt"
	defaultAllowOrigin       = "http://localhost:3000"
	defaultPort              = "8000"
)

// Provider selectors
const (
	ProviderGroq       = "groq"
	ProviderGoogle     = "google"
	ProviderGemini     = "gemini"
	ProviderGTTS       = "gtts"
	ProviderElevenLabs = "elevenlabs"
)

// Config is the process-wide configuration, built once at startup and
// handed to the components that need it.
type Config struct {
	// GroqAPIKey is required; Load fails without it.
	GroqAPIKey     string
	GroqAPIBaseURL string

	STTModel        string
	ChatModel       string
	ChatTemperature float32
	ChatMaxTokens   int

	// TTSResponseFormat is the nominal synthesis format reported by /health.
	// It is not enforced: the default engine always emits MP3.
	TTSResponseFormat string
	TTSLanguage       string

	// STTLanguage is an optional recognition hint; empty lets the provider decide
	STTLanguage string

	STTProvider  string
	ChatProvider string
	TTSProvider  string

	GeminiAPIKey     string
	ElevenLabsAPIKey string

	MediaDir    string
	PromptPath  string
	AllowOrigin string
	Port        string
	AppEnv      string
}

// STTDir is where uploads are parked while a transcription is in flight
func (c *Config) STTDir() string {
	return filepath.Join(c.MediaDir, "stt")
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		GroqAPIBaseURL:    getEnv("GROQ_API_BASE_URL", defaultGroqBaseURL),
		STTModel:          getEnv("STT_MODEL", defaultSTTModel),
		TTSResponseFormat: strings.ToLower(getEnv("TTS_RESPONSE_FORMAT", defaultTTSResponseFormat)),
		TTSLanguage:       getEnv("TTS_LANGUAGE", defaultTTSLanguage),
		STTLanguage:       strings.TrimSpace(os.Getenv("STT_LANGUAGE")),
		STTProvider:       strings.ToLower(getEnv("STT_PROVIDER", ProviderGroq)),
		ChatProvider:      strings.ToLower(getEnv("CHAT_PROVIDER", ProviderGroq)),
		TTSProvider:       strings.ToLower(getEnv("TTS_PROVIDER", ProviderGTTS)),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		ElevenLabsAPIKey:  os.Getenv("ELEVEN_LABS_API_KEY"),
		MediaDir:          getEnv("MEDIA_DIR", defaultMediaDir),
		PromptPath:        getEnv("PROMPT_PATH", defaultPromptPath),
		AllowOrigin:       getEnv("CORS_ALLOW_ORIGIN", defaultAllowOrigin),
		Port:              getEnv("PORT", defaultPort),
		AppEnv:            os.Getenv("APP_ENV"),
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY in environment")
	}

	// Groq model names mean nothing to Gemini
	chatModelDefault := defaultChatModel
	if cfg.ChatProvider == ProviderGemini {
		chatModelDefault = defaultGeminiChatModel
	}
	cfg.ChatModel = getEnv("CHAT_MODEL", chatModelDefault)

	cfg.ChatTemperature = defaultChatTemperature
	if raw := os.Getenv("CHAT_TEMPERATURE"); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_TEMPERATURE: %w", err)
		}
		cfg.ChatTemperature = float32(temperature)
	}

	cfg.ChatMaxTokens = defaultChatMaxTokens
	if raw := os.Getenv("CHAT_MAX_TOKENS"); raw != "" {
		maxTokens, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_MAX_TOKENS: %w", err)
		}
		if maxTokens <= 0 {
			return nil, fmt.Errorf("CHAT_MAX_TOKENS must be positive, got %d", maxTokens)
		}
		cfg.ChatMaxTokens = maxTokens
	}

	if err := cfg.validateProviders(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateProviders() error {
	switch c.STTProvider {
	case ProviderGroq, ProviderGoogle:
	default:
		return fmt.Errorf("unknown STT_PROVIDER: %s", c.STTProvider)
	}

	switch c.ChatProvider {
	case ProviderGroq:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when CHAT_PROVIDER=gemini")
		}
		if strings.Contains(strings.ToLower(c.ChatModel), "llama") {
			return fmt.Errorf("CHAT_MODEL %s is not served by gemini", c.ChatModel)
		}
	default:
		return fmt.Errorf("unknown CHAT_PROVIDER: %s", c.ChatProvider)
	}

	switch c.TTSProvider {
	case ProviderGTTS:
	case ProviderElevenLabs:
		if c.ElevenLabsAPIKey == "" {
			return fmt.Errorf("ELEVEN_LABS_API_KEY is required when TTS_PROVIDER=elevenlabs")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER: %s", c.TTSProvider)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
