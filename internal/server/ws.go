package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/loop"
)

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// clientMessage is a command sent by a viewer over the stream.
type clientMessage struct {
	Type    string `json:"type"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// StateHandler streams scene snapshots over WebSocket and accepts
// comet, reset and enable commands from the viewer.
type StateHandler struct {
	app      *app.App
	interval time.Duration
}

// NewStateHandler creates a StateHandler sending fps snapshots per second.
func NewStateHandler(a *app.App, fps int) *StateHandler {
	return &StateHandler{app: a, interval: loop.FPS(fps)}
}

// ServeHTTP upgrades the connection and streams until either side closes.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		h.readCommands(conn)
	}()

	send := func() {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(takeSnapshot(h.app)); err != nil {
			cancel()
		}
	}
	send()
	loop.Every(ctx, h.interval, send)

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

// readCommands handles viewer messages until the connection fails.
func (h *StateHandler) readCommands(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Ignoring malformed stream message: %v", err)
			continue
		}
		switch msg.Type {
		case "comet":
			h.app.RequestComet()
		case "reset":
			h.app.RequestReset()
		case "enabled":
			if msg.Enabled != nil {
				h.app.SetEnabled(*msg.Enabled)
			}
		default:
			log.Printf("Ignoring unknown stream message %q", msg.Type)
		}
	}
}
