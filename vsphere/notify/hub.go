package notify

import (
	"context"
	"encoding/json"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"github.com/gorilla/websocket"
	"net/http"
	"sync"
	"time"
)

const (
	EventState        = "state"
	EventNotification = "notification"

	writeWait  = 10 * time.Second
	clientSend = 16
)

type Event struct {
	Type string      `json:"type"`
	Time time.Time   `json:"time"`
	Data interface{} `json:"data"`
}

// Hub broadcasts events to websocket subscribers. Slow subscribers lose events.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*subscriber]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("websocket upgrade failed: ", err)
		return
	}
	s := &subscriber{conn: conn, send: make(chan []byte, clientSend)}
	h.mu.Lock()
	h.clients[s] = struct{}{}
	h.mu.Unlock()
	logging.L().Debug("stream subscriber connected ", conn.RemoteAddr().String())

	go s.writeLoop()
	// reads only detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(s)
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[s]; ok {
		delete(h.clients, s)
		close(s.send)
	}
	h.mu.Unlock()
	logging.L().Debug("stream subscriber gone ", s.conn.RemoteAddr().String())
}

func (s *subscriber) writeLoop() {
	defer s.conn.Close()
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logging.L().Debug("stream write failed: ", err)
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) Publish(typ string, data interface{}) {
	b, err := json.Marshal(Event{Type: typ, Time: time.Now(), Data: data})
	if err != nil {
		logging.L().Error("failed to encode stream event: ", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		select {
		case s.send <- b:
		default:
			logging.L().Debug("stream subscriber is slow, event dropped")
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		delete(h.clients, s)
		close(s.send)
	}
}

func (h *Hub) Name() string { return "stream" }

func (h *Hub) Send(_ context.Context, n protocol.Notification) error {
	h.Publish(EventNotification, n)
	return nil
}
