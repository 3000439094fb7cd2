package stt

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain/repositories"
)

const defaultLanguageCode = "en-US"

// GoogleSpeechToText implements SpeechToText for Google Cloud.
// Credentials come from Application Default Credentials.
type GoogleSpeechToText struct {
	client *speech.Client
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud Speech client
func NewGoogleSpeechToText(ctx context.Context, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	return &GoogleSpeechToText{
		client: client,
		logger: logger,
	}, nil
}

// Close releases the underlying gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// TranscribeFile implements repositories.SpeechToText. The model name is
// passed through as the recognition model; Whisper names are not valid here,
// so anything containing "whisper" falls back to the provider default.
func (g *GoogleSpeechToText) TranscribeFile(ctx context.Context, file repositories.AudioFile, model string) (string, error) {
	audioData, err := os.ReadFile(file.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	languageCode := file.Language
	if languageCode == "" {
		languageCode = defaultLanguageCode
	}

	recognitionConfig := &speechpb.RecognitionConfig{
		Encoding:     getAudioEncoding(file.Extension),
		LanguageCode: languageCode,
	}
	if model != "" && !strings.Contains(model, "whisper") {
		recognitionConfig.Model = model
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: recognitionConfig,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	return joinTranscripts(resp.GetResults()), nil
}

// joinTranscripts concatenates the best alternative of every result
func joinTranscripts(results []*speechpb.SpeechRecognitionResult) string {
	var parts []string
	for _, result := range results {
		if len(result.GetAlternatives()) > 0 {
			parts = append(parts, strings.TrimSpace(result.GetAlternatives()[0].GetTranscript()))
		}
	}
	return strings.Join(parts, " ")
}

// getAudioEncoding maps an upload extension to the Google Speech API enum.
// WAV and unknown containers are left unspecified so the header decides.
func getAudioEncoding(extension string) speechpb.RecognitionConfig_AudioEncoding {
	switch extension {
	case ".webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
