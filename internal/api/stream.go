package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/newthinker/signaldeck/internal/store"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WebSocket upgrader for store updates. The API is bound to a local
// address, so any origin may connect.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamMessage is one frame sent to /ws clients.
type StreamMessage struct {
	Type   string      `json:"type"`
	State  store.State `json:"state"`
	SentAt time.Time   `json:"sentAt"`
}

// handleStream pushes every store transition to the client, starting
// with the current state.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if s.deps.Metrics != nil {
		s.deps.Metrics.StreamClientInc()
		defer s.deps.Metrics.StreamClientDec()
	}

	updates, unsubscribe := s.deps.Store.Subscribe()
	defer unsubscribe()

	// The client never sends anything we use; reading detects close and
	// handles pongs.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	s.logger.Debug("stream client connected", zap.String("remote", r.RemoteAddr))

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case st, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "store closed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(StreamMessage{Type: "state", State: st, SentAt: time.Now().UTC()}); err != nil {
				return // Client disconnected
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
