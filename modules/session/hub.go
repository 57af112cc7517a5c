package session

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 모든 origin 허용
		return true
	},
}

// 진행 상황을 받는 WebSocket 클라이언트
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session events out to WebSocket subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: logger,
	}
}

// Publish - 세션 구독자 전체에 이벤트 전송
// A subscriber whose buffer is full is dropped instead of blocking.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Msg("❌ [Hub] failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[ev.SessionID] {
		select {
		case sub.send <- data:
		default:
			h.removeLocked(ev.SessionID, sub)
			h.logger.Warn().Str("session", ev.SessionID).Msg("⚠️ [Hub] slow subscriber dropped")
		}
	}
}

// Subscribers returns how many clients listen to sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

// CloseSession disconnects every subscriber of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[sessionID] {
		h.removeLocked(sessionID, sub)
	}
}

// Serve - WebSocket 업그레이드 후 구독 등록, 현재 상태를 첫 이벤트로 전송
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string, initial Event) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("⚠️ [Hub] WebSocket upgrade failed")
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 64),
	}
	if data, err := json.Marshal(initial); err == nil {
		sub.send <- data
	}

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*subscriber]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	count := len(h.subs[sessionID])
	h.mu.Unlock()

	h.logger.Info().Str("session", sessionID).Int("subscribers", count).Msg("👤 [Hub] subscriber joined")

	go sub.writePump(h.logger)
	go h.readPump(sessionID, sub)
}

// readPump only watches for the client going away.
func (h *Hub) readPump(sessionID string, sub *subscriber) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(sessionID, sub)
		h.mu.Unlock()
		sub.conn.Close()
		h.logger.Info().Str("session", sessionID).Msg("👋 [Hub] subscriber left")
	}()

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("⚠️ [Hub] WebSocket error")
			}
			return
		}
	}
}

func (s *subscriber) writePump(logger zerolog.Logger) {
	defer s.conn.Close()

	for message := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn().Err(err).Msg("⚠️ [Hub] WebSocket write error")
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// removeLocked must be called with mu held. Safe to call twice.
func (h *Hub) removeLocked(sessionID string, sub *subscriber) {
	subs := h.subs[sessionID]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.send)
	if len(subs) == 0 {
		delete(h.subs, sessionID)
	}
}
