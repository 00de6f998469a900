package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cpaas-portal/internal/observ"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Change actions carried by an Event.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// Event tells subscribers of a company that a resource changed.
type Event struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

type message struct {
	companyID string
	payload   []byte
}

// Client represents a connected WebSocket subscriber of one company
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	companyID string
	send      chan []byte
}

// Hub keeps the connected clients per company and fans events out to them
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		broadcast:  make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     observ.OrNop(logger),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.companyID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.companyID] = set
			}
			set[client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", zap.String("company_id", client.companyID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Debug("websocket client unregistered", zap.String("company_id", client.companyID))
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.companyID] {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	set := h.clients[client.companyID]
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.companyID)
	}
}

// Count returns the number of subscribers of a company.
func (h *Hub) Count(companyID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[companyID])
}

// Publish queues ev for every subscriber of companyID. Events are dropped
// when the queue is full.
func (h *Hub) Publish(companyID string, ev Event) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal websocket event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{companyID: companyID, payload: payload}:
	default:
		h.logger.Warn("websocket queue full, event dropped",
			zap.String("company_id", companyID),
			zap.String("type", ev.Type),
			zap.String("action", ev.Action),
		)
	}
}

// ServeWs upgrades the request and subscribes it to companyID's events.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, companyID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{hub: h, conn: conn, companyID: companyID, send: make(chan []byte, 256)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
