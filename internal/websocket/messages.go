package websocket

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	// Client to server
	MessageTypeChat     MessageType = "chat"
	MessageTypeScenario MessageType = "scenario"

	// Server to client
	MessageTypeTranscript MessageType = "transcript"
	MessageTypeReply      MessageType = "reply"
	MessageTypeAudio      MessageType = "audio"
	MessageTypeError      MessageType = "error"
)

// InboundMessage is any JSON text frame sent by the client
type InboundMessage struct {
	Type     MessageType `json:"type"`
	UserText string      `json:"user_text,omitempty"`
	Scenario string      `json:"scenario,omitempty"`
}

// TranscriptMessage carries the recognized text of a binary audio frame
type TranscriptMessage struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// ReplyMessage carries the tutor reply
type ReplyMessage struct {
	Type  MessageType `json:"type"`
	Reply string      `json:"reply"`
}

// AudioMessage announces the binary frame that follows it
type AudioMessage struct {
	Type        MessageType `json:"type"`
	ContentType string      `json:"content_type"`
	Size        int         `json:"size"`
}

// ErrorMessage reports a failed turn; the connection stays open
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
}
