package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

const (
	defaultGTTSBaseURL  = "https://translate.google.com/translate_tts"
	defaultGTTSLanguage = "en"
	defaultGTTSTimeout  = 30 * time.Second

	// The endpoint rejects requests longer than this many characters
	gttsMaxChunkChars = 100

	mp3ContentType = "audio/mpeg"
)

// GTTSConfig holds configuration for the Google Translate TTS adapter.
// All fields are optional.
type GTTSConfig struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// GTTS implements TextToSpeech with the free Google Translate voice.
// It always returns MP3; voice and format hints are ignored.
type GTTS struct {
	baseURL  string
	language string
	client   *http.Client
	logger   *zap.Logger
}

var _ repositories.TextToSpeech = (*GTTS)(nil)

// NewGTTS creates a new Google Translate TTS client
func NewGTTS(config GTTSConfig, logger *zap.Logger) *GTTS {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGTTSBaseURL
		logger.Info("Using default gTTS base URL", zap.String("baseURL", baseURL))
	}

	language := config.Language
	if language == "" {
		language = defaultGTTSLanguage
		logger.Info("Using default gTTS language", zap.String("language", language))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultGTTSTimeout
	}

	return &GTTS{
		baseURL:  baseURL,
		language: language,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Synthesize implements repositories.TextToSpeech. Long text is split into
// chunks the endpoint accepts; the MP3 responses are concatenated in order.
func (g *GTTS) Synthesize(ctx context.Context, text string, config repositories.VoiceConfig) (*repositories.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	language := g.language
	if config.Language != "" {
		language = config.Language
	}

	if config.Voice != "" || (config.Format != "" && config.Format != "mp3") {
		g.logger.Debug("Ignoring unsupported voice hints",
			zap.String("voice", config.Voice),
			zap.String("format", config.Format))
	}

	chunks := splitText(text, gttsMaxChunkChars)
	var buf bytes.Buffer
	for i, chunk := range chunks {
		if err := g.fetchChunk(ctx, &buf, chunk, language, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	g.logger.Info("Synthesized speech",
		zap.Int("chunks", len(chunks)),
		zap.Int("audioSize", buf.Len()))

	return &repositories.Audio{Data: buf.Bytes(), ContentType: mp3ContentType}, nil
}

func (g *GTTS) fetchChunk(ctx context.Context, w io.Writer, chunk, language string, idx, total int) error {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", language)
	query.Set("q", chunk)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0")
	httpReq.Header.Set("Referer", "https://translate.google.com/")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gTTS returned error %d: %s", resp.StatusCode, string(errorBody))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("gTTS returned no audio for chunk %d", idx)
	}
	return nil
}

// splitText breaks text into pieces of at most limit runes, preferring
// whitespace boundaries. Words longer than limit are cut.
func splitText(text string, limit int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}
		if len(current) > 0 && len(current)+1+len(w) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	flush()

	return chunks
}
