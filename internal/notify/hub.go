package notify

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 32
)

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan envelope
}

// Hub is the connection registry: user id -> active connections. A user may
// hold several connections (multiple tabs); events go to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[string]map[*client]struct{}{}}
}

// Serve registers the connection and blocks until it closes. The caller owns
// the upgrade; the hub owns the connection lifecycle from here on.
func (h *Hub) Serve(userID string, conn *websocket.Conn) {
	c := &client{userID: userID, conn: conn, send: make(chan envelope, sendBuffer)}
	h.add(c)
	defer h.remove(c)

	go c.writeLoop()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients don't speak to the server over the socket; reads only
		// surface pongs and the eventual close.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify implements Notifier. A full send buffer drops the event rather than
// blocking the caller.
func (h *Hub) Notify(userID, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- envelope{Event: event, Data: payload}:
		default:
			log.Printf("notify: dropping %s for slow client %s", event, userID)
		}
	}
}

// Online lists user ids with at least one open connection, sorted.
func (h *Hub) Online() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.clients))
	for id := range h.clients {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = map[*client]struct{}{}
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	h.broadcastOnline()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	close(c.send)
	h.mu.Unlock()
	h.broadcastOnline()
}

func (h *Hub) broadcastOnline() {
	online := h.Online()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			select {
			case c.send <- envelope{Event: EventOnlineUsers, Data: online}:
			default:
			}
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
