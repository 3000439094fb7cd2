package domain

import "errors"

// ErrorKind separates caller mistakes from failures on our side or upstream
type ErrorKind int

const (
	// KindClient is malformed or empty input, detected before any provider call
	KindClient ErrorKind = iota + 1
	// KindServer is a provider failure, a missing resource, or an empty upstream result
	KindServer
)

// Error codes reported in ErrorResponse.Error
const (
	CodeEmptyAudio          = "empty_audio"
	CodeAudioTooLarge       = "audio_too_large"
	CodeEmptyTranscription  = "empty_transcription"
	CodeTranscriptionFailed = "stt_failed"
	CodeEmptyUserText       = "user_text_required"
	CodePromptMissing       = "prompt_not_found"
	CodePromptUnreadable    = "prompt_unreadable"
	CodeEmptyReply          = "empty_reply"
	CodeChatFailed          = "chat_failed"
	CodeEmptyText           = "text_required"
	CodeSynthesisFailed     = "tts_failed"
	CodeInvalidRequest      = "invalid_request"
)

// Error is the error type returned by the usecase layer
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientError creates an error caused by the request itself
func ClientError(code, message string) error {
	return &Error{Kind: KindClient, Code: code, Message: message}
}

// ServerError creates an error raised on our side or by a provider.
// err may be nil when there is no underlying cause.
func ServerError(code, message string, err error) error {
	return &Error{Kind: KindServer, Code: code, Message: message, Err: err}
}

// IsClientError reports whether err carries a client-side Error
func IsClientError(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindClient
}
