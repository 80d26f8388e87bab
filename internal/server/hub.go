package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nvasile/blockfall/internal/protocol"
)

const (
	broadcastInterval = 100 * time.Millisecond
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingInterval      = (pongWait * 9) / 10
	maxMessageSize    = 32768
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// session is one connected streamer or watcher. Identity arrives with the
// hello message after the session is already registered, so name, streamer
// and snapshot are all guarded: the read pump writes them while the
// broadcast ticker reads.
type session struct {
	ID     string
	conn   *websocket.Conn
	sendCh chan []byte

	mu       sync.Mutex
	name     string
	streamer bool
	snapshot *protocol.GameSnapshot
}

func (s *session) setIdentity(name string, streamer bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.streamer = streamer
}

func (s *session) identity() (name string, streamer bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.streamer
}

func (s *session) setSnapshot(snap *protocol.GameSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

func (s *session) latestSnapshot() *protocol.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// send queues a message, dropping it when the client cannot keep up.
func (s *session) send(data []byte) {
	select {
	case s.sendCh <- data:
	default:
	}
}

// Hub relays read-only board snapshots from streaming players to watchers.
// It holds no game authority: every game runs on its owner's machine and
// the hub never feeds anything back into one.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	nextID   int
}

// NewHub creates an empty relay.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*session)}
}

// Run rebroadcasts the latest snapshots at a fixed cadence until stop is
// closed.
func (h *Hub) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.broadcastStreams()
		case <-stop:
			return
		}
	}
}

// HandleWS upgrades an HTTP request and services the connection until it
// drops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: upgrade failed: %v", err)
		return
	}

	s := h.addSession(conn)
	log.Printf("hub: session %s connected", s.ID)

	h.sendTo(s, protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{SessionID: s.ID},
	})

	go h.writePump(s)
	h.readPump(s)

	h.removeSession(s.ID)
	h.broadcastRoster()
	log.Printf("hub: session %s disconnected", s.ID)
}

func (h *Hub) addSession(conn *websocket.Conn) *session {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := &session{
		ID:     fmt.Sprintf("s%d", h.nextID),
		conn:   conn,
		sendCh: make(chan []byte, 256),
	}
	h.sessions[s.ID] = s
	return s
}

func (h *Hub) removeSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func (h *Hub) allSessions() []*session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// sendTo marshals and queues one envelope for one session.
func (h *Hub) sendTo(s *session, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("hub: marshal error: %v", err)
		return
	}
	s.send(data)
}

// broadcast queues one envelope for every session.
func (h *Hub) broadcast(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("hub: marshal error: %v", err)
		return
	}
	for _, s := range h.allSessions() {
		s.send(data)
	}
}

// broadcastRoster announces the current set of streamers.
func (h *Hub) broadcastRoster() {
	var streamers []protocol.StreamerInfo
	for _, s := range h.allSessions() {
		name, streamer := s.identity()
		if !streamer {
			continue
		}
		streamers = append(streamers, protocol.StreamerInfo{
			SessionID: s.ID,
			Name:      name,
			Live:      s.latestSnapshot() != nil,
		})
	}

	h.broadcast(protocol.Envelope{
		Type:    protocol.MsgRoster,
		Payload: protocol.RosterPayload{Streamers: streamers},
	})
}

// broadcastStreams fans the latest snapshot of every live game out to all
// sessions except the game's owner.
func (h *Hub) broadcastStreams() {
	sessions := h.allSessions()

	var games []protocol.GameSnapshot
	for _, s := range sessions {
		if snap := s.latestSnapshot(); snap != nil {
			g := *snap
			g.SessionID = s.ID
			g.Name, _ = s.identity()
			games = append(games, g)
		}
	}
	if len(games) == 0 {
		return
	}

	for _, s := range sessions {
		others := make([]protocol.GameSnapshot, 0, len(games))
		for _, g := range games {
			if g.SessionID != s.ID {
				others = append(others, g)
			}
		}
		if len(others) == 0 {
			continue
		}
		h.sendTo(s, protocol.Envelope{
			Type:    protocol.MsgStreamUpdate,
			Payload: protocol.StreamUpdatePayload{Games: others},
		})
	}
}

// readPump consumes messages from one session until the connection drops.
func (h *Hub) readPump(s *session) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("hub: read error from %s: %v", s.ID, err)
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("hub: bad message from %s: %v", s.ID, err)
			continue
		}

		switch env.Type {
		case protocol.MsgHello:
			var payload protocol.HelloPayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				s.setIdentity(payload.Name, payload.Streamer)
				h.broadcastRoster()
			}

		case protocol.MsgSnapshot:
			if _, streamer := s.identity(); !streamer {
				continue
			}
			var snap protocol.GameSnapshot
			if json.Unmarshal(env.Payload, &snap) == nil {
				s.setSnapshot(&snap)
			}
		}
	}
}

// writePump writes queued messages and keeps the connection alive.
func (h *Hub) writePump(s *session) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.sendCh:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
