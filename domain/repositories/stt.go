package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeFile sends the audio stored at file.Path and returns the raw transcript
	TranscribeFile(ctx context.Context, file AudioFile, model string) (string, error)
}

// AudioFile points at an uploaded clip persisted for the duration of one call
type AudioFile struct {
	Path      string `json:"path"`
	Extension string `json:"extension"` // lower-case, with leading dot
	Language  string `json:"language,omitempty"`
}
