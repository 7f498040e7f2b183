package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mverhagen/bpdoc/pkg/monitor"
	"github.com/mverhagen/bpdoc/pkg/observability"
)

// Websocket timing. Pings keep intermediaries from dropping idle watch
// connections; a client that misses the pong window is considered gone.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// sendBuffer bounds events queued per client. Events past the buffer
// are dropped: a stalled client must not block the event bus.
const sendBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// watchFrame is one change event as pushed to watch clients.
type watchFrame struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
}

// handleWatch upgrades the connection and streams asset change events
// until the client disconnects.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	owner := "watch-" + uuid.NewString()
	send := make(chan monitor.Event, sendBuffer)
	handler := func(e monitor.Event) {
		select {
		case send <- e:
		default:
		}
	}

	for _, class := range []monitor.EventClass{monitor.AssetAdded, monitor.AssetModified, monitor.AssetRemoved} {
		if err := s.events.Subscribe(class, owner, handler); err != nil {
			s.events.UnsubscribeAll(owner)
			s.log.Error("watch subscription failed", "owner", owner, "error", err)
			_ = conn.Close()
			return
		}
	}

	s.log.Info("watch client connected", "owner", owner, "request_id", RequestID(r.Context()))

	done := make(chan struct{})
	go watchReadPump(conn, done)
	watchWritePump(conn, send, done)

	s.events.UnsubscribeAll(owner)
	_ = conn.Close()
	s.log.Info("watch client disconnected", "owner", owner)
}

// watchReadPump drains client frames so pong handling runs, and closes
// done when the client goes away. Clients are not expected to send
// anything meaningful.
func watchReadPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// watchWritePump pushes events and pings until the client disconnects
// or a write fails.
func watchWritePump(conn *websocket.Conn, send <-chan monitor.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case e := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			frame := watchFrame{
				Event: e.Class.String(),
				Name:  e.Handle.Name,
				Path:  e.Handle.Path,
				Kind:  string(e.Handle.Kind),
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
