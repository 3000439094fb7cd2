package domain

// TranscriptionRequest is one uploaded audio clip
type TranscriptionRequest struct {
	Filename string
	Data     []byte
}

// ChatRequest is one learner utterance with an optional role-play scenario
type ChatRequest struct {
	UserText string `json:"user_text" form:"user_text"`
	Scenario string `json:"scenario,omitempty" form:"scenario"`
}

// SynthesisRequest represents text to be spoken.
//
// Voice and Format are advisory. The default engine ignores both and always
// produces MP3; they are passed through to the provider so one that supports
// them can honor them without changing this contract.
type SynthesisRequest struct {
	Text   string `json:"text" form:"text"`
	Voice  string `json:"voice,omitempty" form:"voice"`
	Format string `json:"format,omitempty" form:"format"`
}

// TranscriptionResult is the /stt response body
type TranscriptionResult struct {
	Text string `json:"text"`
}

// ChatReply is the /chat response body
type ChatReply struct {
	Reply string `json:"reply"`
}
