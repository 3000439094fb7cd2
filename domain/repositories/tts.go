package repositories

import "context"

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, config VoiceConfig) (*Audio, error)
}

// VoiceConfig carries caller hints. Providers that cannot honor a field ignore it.
type VoiceConfig struct {
	Voice    string
	Format   string
	Language string
}

// Audio is a fully synthesized clip held in memory
type Audio struct {
	Data        []byte
	ContentType string
}
