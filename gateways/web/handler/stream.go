package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/echoscribe/backend/topics"
)

// Stream event types pushed to websocket subscribers.
const (
	EventDelta = "delta"
	EventError = "error"
	EventDone  = "done"
)

// StreamEvent is one websocket frame of a live transcription.
type StreamEvent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// StreamHub fans transcription events out to websocket subscribers, keyed
// by topic.
type StreamHub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]struct{}
	log  *slog.Logger
}

func NewStreamHub(log *slog.Logger) *StreamHub {
	return &StreamHub{
		subs: make(map[string]map[*websocket.Conn]struct{}),
		log:  log,
	}
}

func (s *StreamHub) Subscribe(topic string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[topic] == nil {
		s.subs[topic] = make(map[*websocket.Conn]struct{})
	}
	s.subs[topic][conn] = struct{}{}
}

func (s *StreamHub) Unsubscribe(topic string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs[topic], conn)
	if len(s.subs[topic]) == 0 {
		delete(s.subs, topic)
	}
}

// Publish delivers ev to every subscriber of topic. A connection that fails
// to accept the write is dropped from the topic.
func (s *StreamHub) Publish(topic string, ev StreamEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.subs[topic] {
		if err := conn.WriteJSON(ev); err != nil {
			s.log.Warn("dropping stream subscriber",
				slog.String("topic", topic),
				slog.String("error", err.Error()))
			conn.Close()
			delete(s.subs[topic], conn)
		}
	}
}

// Subscribers reports how many connections listen on topic.
func (s *StreamHub) Subscribers(topic string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[topic])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The gateway already applies a CORS policy; the websocket endpoint
	// accepts any origin that passed it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream upgrades the request to a websocket and relays live transcription
// events for one transcript until the client disconnects.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	topic := topics.Transcript(chi.URLParam(r, "id")).FullName()
	h.hub.Subscribe(topic, conn)
	h.log.Info("stream subscriber connected", slog.String("topic", topic))

	defer func() {
		h.hub.Unsubscribe(topic, conn)
		conn.Close()
		h.log.Info("stream subscriber disconnected", slog.String("topic", topic))
	}()

	// Clients only listen; the read loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
