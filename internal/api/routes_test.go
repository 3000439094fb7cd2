package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/domain/repositories"
	"github.com/satriahrh/speakgenie/server/usecase"
)

type stubSTT struct {
	text  string
	err   error
	calls int

	gotSize int64
}

func (s *stubSTT) TranscribeFile(ctx context.Context, file repositories.AudioFile, model string) (string, error) {
	s.calls++
	if info, err := os.Stat(file.Path); err == nil {
		s.gotSize = info.Size()
	}
	return s.text, s.err
}

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(ctx context.Context, messages []repositories.ChatMessage, options repositories.CompletionOptions) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubPrompt struct {
	text  string
	err   error
	calls int
}

func (s *stubPrompt) SystemPrompt(ctx context.Context) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubTTS struct {
	err   error
	calls int
}

func (s *stubTTS) Synthesize(ctx context.Context, text string, config repositories.VoiceConfig) (*repositories.Audio, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &repositories.Audio{Data: []byte("ID3-" + text), ContentType: "audio/mpeg"}, nil
}

type testServer struct {
	echo   *echo.Echo
	stt    *stubSTT
	llm    *stubLLM
	prompt *stubPrompt
	tts    *stubTTS
	sttDir string
}

func setupTestServer(t *testing.T) *testServer {
	logger := zaptest.NewLogger(t)
	ts := &testServer{
		echo:   echo.New(),
		stt:    &stubSTT{text: "hello genie"},
		llm:    &stubLLM{reply: "Hi! How are you today?"},
		prompt: &stubPrompt{text: "You are Genie."},
		tts:    &stubTTS{},
		sttDir: t.TempDir(),
	}

	handler := NewHandler(
		usecase.NewTranscriptionService(ts.stt, usecase.TranscriptionConfig{Model: "whisper-large-v3-turbo", Dir: ts.sttDir}, logger),
		usecase.NewChatService(ts.llm, ts.prompt, repositories.CompletionOptions{Model: "llama-3.1-8b-instant"}, logger),
		usecase.NewSpeechService(ts.tts, "en", logger),
		HealthModels{STT: "whisper-large-v3-turbo", Chat: "llama-3.1-8b-instant", TTSFormatDefault: "mp3"},
		logger,
	)
	InitRoutes(ts.echo, handler)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func multipartAudio(t *testing.T, field, filename string, data []byte) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/stt", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	if resp.Status != "ok" || !resp.EnvLoaded {
		t.Errorf("Unexpected health %+v", resp)
	}
	if resp.Models.STT != "whisper-large-v3-turbo" || resp.Models.Chat != "llama-3.1-8b-instant" || resp.Models.TTSFormatDefault != "mp3" {
		t.Errorf("Unexpected models %+v", resp.Models)
	}
}

func TestSTT_TooSmallUpload(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(multipartAudio(t, "audio", "clip.webm", []byte("12345")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Message != "Empty audio upload" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	if ts.stt.calls != 0 {
		t.Error("Provider must not be called")
	}
}

func TestSTT_MissingField(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(multipartAudio(t, "file", "clip.webm", []byte("0123456789abc")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
	if ts.stt.calls != 0 {
		t.Error("Provider must not be called")
	}
}

func TestSTT_Success(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(multipartAudio(t, "audio", "clip.webm", bytes.Repeat([]byte{0x1a}, 2048)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Text string `json:"text"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Text != "hello genie" {
		t.Errorf("Unexpected text %q", resp.Text)
	}

	entries, _ := os.ReadDir(ts.sttDir)
	if len(entries) != 0 {
		t.Errorf("Temp upload left behind: %d files", len(entries))
	}
}

func TestSTT_UploadAtLimitIsForwardedWhole(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(multipartAudio(t, "audio", "clip.webm", bytes.Repeat([]byte{0x1a}, maxAudioUploadBytes)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ts.stt.gotSize != maxAudioUploadBytes {
		t.Errorf("Provider saw %d bytes, want %d", ts.stt.gotSize, maxAudioUploadBytes)
	}
}

func TestSTT_OversizedUpload(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(multipartAudio(t, "audio", "clip.webm", bytes.Repeat([]byte{0x1a}, maxAudioUploadBytes+4096)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Error != domain.CodeAudioTooLarge {
		t.Errorf("Expected code %s, got %+v", domain.CodeAudioTooLarge, resp)
	}
	if ts.stt.calls != 0 {
		t.Error("Provider must not be called with a truncated upload")
	}

	entries, _ := os.ReadDir(ts.sttDir)
	if len(entries) != 0 {
		t.Errorf("Temp upload left behind: %d files", len(entries))
	}
}

func TestSTT_EmptyTranscription(t *testing.T) {
	ts := setupTestServer(t)
	ts.stt.text = "   "

	rec := ts.do(multipartAudio(t, "audio", "clip.wav", bytes.Repeat([]byte{1}, 64)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "Empty transcription" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}

func TestSTT_ProviderFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.stt.err = errors.New("invalid api key")

	rec := ts.do(multipartAudio(t, "audio", "clip.wav", bytes.Repeat([]byte{1}, 64)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "STT failed: invalid api key" {
		t.Errorf("Unexpected message %q", resp.Message)
	}

	entries, _ := os.ReadDir(ts.sttDir)
	if len(entries) != 0 {
		t.Errorf("Temp upload left behind after failure: %d files", len(entries))
	}
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestChat_Success(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(postJSON("/chat", `{"user_text":"Hello"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Reply != "Hi! How are you today?" {
		t.Errorf("Unexpected reply %q", resp.Reply)
	}
}

func TestChat_EmptyUserText(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []string{`{"user_text":""}`, `{"user_text":"   "}`, `{}`} {
		rec := ts.do(postJSON("/chat", body))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422 for %s, got %d", body, rec.Code)
		}
	}
	if ts.prompt.calls != 0 {
		t.Error("Prompt must not be read for empty user_text")
	}
}

func TestChat_MalformedBody(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(postJSON("/chat", `{"user_text":`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

func TestChat_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(ts *testServer)
		message string
	}{
		{
			name:    "prompt missing",
			setup:   func(ts *testServer) { ts.prompt.err = repositories.ErrPromptNotFound },
			message: "Tutor system prompt not found.",
		},
		{
			name:    "empty reply",
			setup:   func(ts *testServer) { ts.llm.reply = "  " },
			message: "Empty reply from model.",
		},
		{
			name:    "provider failure",
			setup:   func(ts *testServer) { ts.llm.err = errors.New("timeout") },
			message: "Chat failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			tt.setup(ts)

			rec := ts.do(postJSON("/chat", `{"user_text":"Hello","scenario":"At school"}`))
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("Expected 500, got %d", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, resp.Message)
			}
		})
	}
}

func TestTTS_JSONBody(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(postJSON("/tts", `{"text":"Hi"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("Expected non-empty audio body")
	}
}

func TestTTS_FormBody(t *testing.T) {
	ts := setupTestServer(t)

	form := url.Values{}
	form.Set("text", "Good morning")
	form.Set("voice", "alloy")
	form.Set("format", "wav")
	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := ts.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "audio/mpeg" {
		t.Errorf("Requested format must be ignored, got content type %q", ct)
	}
	if rec.Body.String() != "ID3-Good morning" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}

func TestTTS_EmptyText(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(postJSON("/tts", `{"text":"  "}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
	if ts.tts.calls != 0 {
		t.Error("Synthesizer must not be called")
	}
}

func TestTTS_SynthesisFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.tts.err = errors.New("blocked")

	rec := ts.do(postJSON("/tts", `{"text":"Hi"}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "TTS synthesis failed: blocked" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}
