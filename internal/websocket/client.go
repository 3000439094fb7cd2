package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/speakgenie/server/domain"
	"github.com/satriahrh/speakgenie/server/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer. A binary frame is a whole clip.
	maxMessageSize = 10 * 1024 * 1024

	// Binary frames come from the browser recorder, which produces webm
	binaryClipName = "clip.webm"
)

// Handler upgrades /ws requests and runs voice turns over the connection.
// Connections share nothing; each one only talks to the stateless services.
type Handler struct {
	transcription *usecase.TranscriptionService
	chat          *usecase.ChatService
	speech        *usecase.SpeechService
	upgrader      websocket.Upgrader
	pongWait      time.Duration
	logger        *zap.Logger
}

// NewHandler creates a websocket handler that accepts connections from allowOrigin
func NewHandler(
	transcription *usecase.TranscriptionService,
	chat *usecase.ChatService,
	speech *usecase.SpeechService,
	allowOrigin string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		transcription: transcription,
		chat:          chat,
		speech:        speech,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowOrigin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pongWait: pongWait,
		logger:   logger,
	}
}

// WriteData is one outbound frame
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a single websocket connection
type Client struct {
	handler *Handler
	conn    *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// done is closed when writePump stops, so producers never block on send.
	done chan struct{}

	// scenario applies to turns started by binary audio frames.
	// Only touched from readPump.
	scenario string

	logger *zap.Logger
}

// Serve handles websocket requests from the peer. It blocks until the
// connection is closed.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		handler: h,
		conn:    conn,
		send:    make(chan WriteData, 16),
		done:    make(chan struct{}),
		logger:  h.logger.With(zap.String("remoteAddr", conn.RemoteAddr().String())),
	}
	client.logger.Info("WebSocket connected")

	go client.writePump()
	client.readPump(c.Request().Context())

	client.logger.Info("WebSocket disconnected")
	return nil
}

// readPump reads frames and runs one turn per frame, in order
func (c *Client) readPump(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(c.send)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(ctx, message)
		case websocket.BinaryMessage:
			c.processAudio(ctx, message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}

		// Pongs are not read while a turn runs.
		c.extendReadDeadline()
	}
}

func (c *Client) extendReadDeadline() {
	c.conn.SetReadDeadline(time.Now().Add(c.handler.pongWait))
}

// writePump pumps queued frames to the connection and keeps it alive with pings
func (c *Client) writePump() {
	// Pings must go out before the peer's pongWait runs out.
	ticker := time.NewTicker(c.handler.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(ctx context.Context, message []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("Failed to parse message", zap.Error(err))
		c.sendError(domain.ClientError(domain.CodeInvalidRequest, "Invalid message format"))
		return
	}

	switch msg.Type {
	case MessageTypeScenario:
		c.scenario = msg.Scenario
	case MessageTypeChat:
		c.replyAndSpeak(ctx, domain.ChatRequest{UserText: msg.UserText, Scenario: msg.Scenario})
	default:
		c.logger.Warn("Unknown message type", zap.String("type", string(msg.Type)))
		c.sendError(domain.ClientError(domain.CodeInvalidRequest, "Unknown message type"))
	}
}

func (c *Client) processAudio(ctx context.Context, data []byte) {
	text, err := c.handler.transcription.Transcribe(ctx, domain.TranscriptionRequest{
		Filename: binaryClipName,
		Data:     data,
	})
	if err != nil {
		c.sendError(err)
		return
	}

	c.sendJSON(TranscriptMessage{Type: MessageTypeTranscript, Text: text})
	c.replyAndSpeak(ctx, domain.ChatRequest{UserText: text, Scenario: c.scenario})
}

func (c *Client) replyAndSpeak(ctx context.Context, req domain.ChatRequest) {
	reply, err := c.handler.chat.Reply(ctx, req)
	if err != nil {
		c.sendError(err)
		return
	}
	c.sendJSON(ReplyMessage{Type: MessageTypeReply, Reply: reply})

	audio, err := c.handler.speech.Synthesize(ctx, domain.SynthesisRequest{Text: reply})
	if err != nil {
		c.sendError(err)
		return
	}

	c.sendJSON(AudioMessage{Type: MessageTypeAudio, ContentType: audio.ContentType, Size: len(audio.Data)})
	c.enqueue(WriteData{Type: websocket.BinaryMessage, Payload: audio.Data})
}

func (c *Client) sendError(err error) {
	msg := ErrorMessage{Type: MessageTypeError, Error: "internal_error", Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		msg.Error = de.Code
	}
	c.sendJSON(msg)
}

func (c *Client) sendJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	c.enqueue(WriteData{Type: websocket.TextMessage, Payload: payload})
}

func (c *Client) enqueue(data WriteData) {
	select {
	case c.send <- data:
	case <-c.done:
	}
}
