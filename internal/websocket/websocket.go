package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
)

// Message types sent to browsers
const (
	TypeStandingsUpdated = "standings_updated"
	TypeFixtureStatus    = "fixture_status"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // public read-only feed
	},
}

// Publisher fans a message out to every app instance, this one included
type Publisher interface {
	Publish(ctx context.Context, msg models.WSMessage) error
}

// FixtureLister is what the fixture watcher polls
type FixtureLister interface {
	AllFixtures(ctx context.Context) ([]services.FixtureView, error)
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	publisher  Publisher
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub instance
func New(log logger.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetPublisher routes broadcasts through p instead of delivering them
// locally. p is then responsible for calling Deliver on every instance.
func (h *Hub) SetPublisher(p Publisher) {
	h.publisher = p
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start(ctx context.Context) {
	go h.run(ctx)
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", n)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", n)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go h.drop(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// drop unregisters c unless the hub has already stopped
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount is the number of connected browsers
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Deliver sends a message to the clients connected to this instance.
// It is a no-op once the hub has stopped.
func (h *Hub) Deliver(msg models.WSMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// BroadcastMessage sends a message to all connected clients
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	msg := models.WSMessage{Type: msgType, Payload: payload}
	if h.publisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := h.publisher.Publish(ctx, msg)
		if err == nil {
			return
		}
		h.log.Warn("Publish failed, delivering locally", "type", msgType, "error", err)
	}
	h.Deliver(msg)
}

// BroadcastStandingsUpdated implements services.Broadcaster
func (h *Hub) BroadcastStandingsUpdated(domain models.Domain, eventID string) {
	h.BroadcastMessage(TypeStandingsUpdated, map[string]interface{}{
		"domain":   domain,
		"event_id": eventID,
	})
}

// BroadcastFixtureStatus tells browsers a fixture changed status
func (h *Hub) BroadcastFixtureStatus(eventID, fixtureID string, status models.FixtureStatus) {
	h.BroadcastMessage(TypeFixtureStatus, map[string]interface{}{
		"event_id":   eventID,
		"fixture_id": fixtureID,
		"status":     status,
	})
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		// The feed is one-way; reads only keep the deadline and close handling alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, 256),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// StartFixtureWatcher polls fixtures every interval and broadcasts each
// derived status change. The first poll only records the baseline.
func (h *Hub) StartFixtureWatcher(ctx context.Context, interval time.Duration, lister FixtureLister) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[string]models.FixtureStatus)
	h.checkFixtures(ctx, lister, seen, true)

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Fixture watcher stopped")
			return
		case <-ticker.C:
			h.checkFixtures(ctx, lister, seen, false)
		}
	}
}

// checkFixtures compares current statuses with seen and broadcasts changes
func (h *Hub) checkFixtures(ctx context.Context, lister FixtureLister, seen map[string]models.FixtureStatus, baseline bool) {
	fixtures, err := lister.AllFixtures(ctx)
	if err != nil {
		if ctx.Err() == nil {
			h.log.Warn("Fixture watcher poll failed", "error", err)
		}
		return
	}

	current := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		current[f.ID] = true
		prev, known := seen[f.ID]
		seen[f.ID] = f.Status
		if baseline || !known || prev == f.Status {
			continue
		}
		h.log.Debug("Fixture status changed", "fixture_id", f.ID, "from", prev, "to", f.Status)
		h.BroadcastFixtureStatus(f.EventID, f.ID, f.Status)
	}
	for id := range seen {
		if !current[id] {
			delete(seen, id)
		}
	}
}
