// Command genie-client drives one conversation turn over the /ws endpoint.
// It sends either a recorded clip or a typed message and saves the spoken
// reply next to the working directory.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	ws "github.com/satriahrh/speakgenie/server/internal/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8000", "server host:port")
	origin := flag.String("origin", "http://localhost:3000", "Origin header sent during the handshake")
	audioPath := flag.String("audio", "", "audio clip to send as a binary frame")
	text := flag.String("text", "", "typed message to send instead of audio")
	scenario := flag.String("scenario", "", "role-play scenario for this connection")
	outDir := flag.String("out", "audio_responses", "directory for reply audio")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *audioPath == "" && *text == "" {
		logger.Fatal("Either -audio or -text is required")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	logger.Info("Connecting", zap.String("url", u.String()))

	headers := http.Header{"Origin": {*origin}}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), headers)
	if err != nil {
		logger.Fatal("Dial failed", zap.Error(err))
	}
	defer c.Close()

	done := make(chan struct{})
	go handleIncomingMessages(c, *outDir, done, logger)

	if *scenario != "" && *text == "" {
		if err := c.WriteJSON(ws.InboundMessage{Type: ws.MessageTypeScenario, Scenario: *scenario}); err != nil {
			logger.Fatal("Failed to send scenario", zap.Error(err))
		}
	}

	if *text != "" {
		err = c.WriteJSON(ws.InboundMessage{Type: ws.MessageTypeChat, UserText: *text, Scenario: *scenario})
	} else {
		var clip []byte
		clip, err = os.ReadFile(*audioPath)
		if err == nil {
			logger.Info("Sending clip", zap.String("path", *audioPath), zap.Int("bytes", len(clip)))
			err = c.WriteMessage(websocket.BinaryMessage, clip)
		}
	}
	if err != nil {
		logger.Fatal("Failed to send turn", zap.Error(err))
	}

	select {
	case <-done:
	case <-interrupt:
		logger.Info("Interrupted")
	}

	err = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		logger.Debug("Write close failed", zap.Error(err))
		return
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}

// handleIncomingMessages prints transcript and reply frames and writes the
// binary audio frame that follows an audio header to outDir. It returns once
// the turn's audio has been saved, an error frame arrives, or the socket closes.
func handleIncomingMessages(c *websocket.Conn, outDir string, done chan struct{}, logger *zap.Logger) {
	defer close(done)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("Read ended", zap.Error(err))
			return
		}

		if messageType == websocket.BinaryMessage {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				logger.Error("Failed to create output directory", zap.Error(err))
				return
			}
			path := filepath.Join(outDir, time.Now().Format("20060102-150405")+".mp3")
			if err := os.WriteFile(path, message, 0o644); err != nil {
				logger.Error("Failed to save reply audio", zap.Error(err))
				return
			}
			logger.Info("Saved reply audio", zap.String("path", path), zap.Int("bytes", len(message)))
			return
		}

		var envelope struct {
			Type    ws.MessageType `json:"type"`
			Text    string         `json:"text"`
			Reply   string         `json:"reply"`
			Error   string         `json:"error"`
			Message string         `json:"message"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			logger.Warn("Unreadable frame", zap.ByteString("frame", message))
			continue
		}

		switch envelope.Type {
		case ws.MessageTypeTranscript:
			logger.Info("You said", zap.String("text", envelope.Text))
		case ws.MessageTypeReply:
			logger.Info("Genie says", zap.String("reply", envelope.Reply))
		case ws.MessageTypeAudio:
			logger.Debug("Audio follows", zap.ByteString("header", message))
		case ws.MessageTypeError:
			logger.Error("Server error", zap.String("code", envelope.Error), zap.String("message", envelope.Message))
			return
		default:
			logger.Warn("Unknown frame type", zap.String("type", string(envelope.Type)))
		}
	}
}
