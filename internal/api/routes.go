package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/usecase"
)

// maxAudioUploadBytes is the largest upload accepted; anything longer is
// rejected rather than cut short
const maxAudioUploadBytes = 25 << 20

// Handler serves the relay endpoints
type Handler struct {
	transcription *usecase.TranscriptionService
	chat          *usecase.ChatService
	speech        *usecase.SpeechService
	health        HealthResponse
	logger        *zap.Logger
}

// NewHandler creates the HTTP handler set
func NewHandler(
	transcription *usecase.TranscriptionService,
	chat *usecase.ChatService,
	speech *usecase.SpeechService,
	models HealthModels,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		transcription: transcription,
		chat:          chat,
		speech:        speech,
		health: HealthResponse{
			Status:    "ok",
			EnvLoaded: true,
			Models:    models,
		},
		logger: logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Health)
	e.POST("/stt", h.SpeechToText)
	e.POST("/chat", h.Chat)
	e.POST("/tts", h.TextToSpeech)
}

// Health reports liveness and the configured models. The process does not
// start without its credential, so env_loaded is always true here.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health)
}

// SpeechToText accepts a multipart "audio" file and returns its transcript
func (h *Handler) SpeechToText(c echo.Context) error {
	req := domain.TranscriptionRequest{}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		h.logger.Warn("Missing audio upload", zap.Error(err))
		return h.respondError(c, domain.ClientError(domain.CodeEmptyAudio, "Empty audio upload"))
	}
	req.Filename = fileHeader.Filename

	file, err := fileHeader.Open()
	if err != nil {
		return h.respondError(c, domain.ServerError(domain.CodeTranscriptionFailed, "STT failed", err))
	}
	defer file.Close()

	req.Data, err = io.ReadAll(io.LimitReader(file, maxAudioUploadBytes+1))
	if err != nil {
		return h.respondError(c, domain.ServerError(domain.CodeTranscriptionFailed, "STT failed", err))
	}
	if len(req.Data) > maxAudioUploadBytes {
		h.logger.Warn("Audio upload too large", zap.Int64("size", fileHeader.Size))
		return h.respondError(c, domain.ClientError(domain.CodeAudioTooLarge, "Audio upload too large"))
	}

	text, err := h.transcription.Transcribe(c.Request().Context(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.TranscriptionResult{Text: text})
}

// Chat accepts {user_text, scenario} and returns the tutor reply
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind chat request", zap.Error(err))
		return h.respondError(c, domain.ClientError(domain.CodeInvalidRequest, "Invalid request format"))
	}

	reply, err := h.chat.Reply(c.Request().Context(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.ChatReply{Reply: reply})
}

// TextToSpeech accepts text (form or JSON) and streams back MP3 audio
func (h *Handler) TextToSpeech(c echo.Context) error {
	var req domain.SynthesisRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind tts request", zap.Error(err))
		return h.respondError(c, domain.ClientError(domain.CodeInvalidRequest, "Invalid request format"))
	}

	audio, err := h.speech.Synthesize(c.Request().Context(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Stream(http.StatusOK, audio.ContentType, bytes.NewReader(audio.Data))
}

// respondError maps client errors to 422 and everything else to 500
func (h *Handler) respondError(c echo.Context, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		h.logger.Error("Unexpected error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}

	status := http.StatusInternalServerError
	if domain.IsClientError(de) {
		status = http.StatusUnprocessableEntity
	}

	return c.JSON(status, ErrorResponse{
		Error:   de.Code,
		Message: de.Error(),
	})
}
