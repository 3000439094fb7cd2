package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/adapters/prompt"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
	"github.com/satriahrh/speakgenie/server/internal/api"
	"github.com/satriahrh/speakgenie/server/internal/config"
	"github.com/satriahrh/speakgenie/server/internal/websocket"
	"github.com/satriahrh/speakgenie/server/usecase"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	envErr := godotenv.Load(envFile)

	cfg, cfgErr := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No env file loaded, using process environment", zap.String("envFile", envFile))
	}
	if cfgErr != nil {
		logger.Fatal("Invalid configuration", zap.Error(cfgErr))
	}

	if err := os.MkdirAll(cfg.STTDir(), 0o755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.String("dir", cfg.STTDir()), zap.Error(err))
	}

	ctx := context.Background()

	// Initialize adapters
	speechToText, closeSTT, err := newSpeechToText(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech-to-text", zap.Error(err))
	}
	defer closeSTT()

	languageModel, err := newLanguageModel(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize language model", zap.Error(err))
	}

	textToSpeech, err := newTextToSpeech(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize text-to-speech", zap.Error(err))
	}

	// Initialize usecase services
	transcriptionService := usecase.NewTranscriptionService(speechToText, usecase.TranscriptionConfig{
		Model:    cfg.STTModel,
		Dir:      cfg.STTDir(),
		Language: cfg.STTLanguage,
	}, logger)
	chatService := usecase.NewChatService(languageModel, prompt.NewFilePrompt(cfg.PromptPath), repositories.CompletionOptions{
		Model:       cfg.ChatModel,
		Temperature: cfg.ChatTemperature,
		MaxTokens:   cfg.ChatMaxTokens,
	}, logger)
	speechService := usecase.NewSpeechService(textToSpeech, cfg.TTSLanguage, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
	}))

	// Initialize API routes
	api.InitRoutes(e, api.NewHandler(transcriptionService, chatService, speechService, api.HealthModels{
		STT:              cfg.STTModel,
		Chat:             cfg.ChatModel,
		TTSFormatDefault: cfg.TTSResponseFormat,
	}, logger))

	wsHandler := websocket.NewHandler(transcriptionService, chatService, speechService, cfg.AllowOrigin, logger)
	e.GET("/ws", wsHandler.Serve)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("sttProvider", cfg.STTProvider),
		zap.String("chatProvider", cfg.ChatProvider),
		zap.String("ttsProvider", cfg.TTSProvider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newLogger picks the development logger for APP_ENV=development. cfg is nil
// when configuration failed to load.
func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	if cfg != nil && cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}
