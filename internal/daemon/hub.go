package daemon

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tablerohq/tablero/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon binds to loopback; boards connect from the same machine
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscriber is one connected websocket client
type subscriber struct {
	conn         *websocket.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	mu           sync.Mutex // Protects subscription
	closeOnce    sync.Once
}

func (c *subscriber) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub fans board change events out to connected websocket clients.
// It implements events.Publisher so the story service can stay unaware
// of transport details.
type Hub struct {
	clients         map[*subscriber]bool
	mu              sync.RWMutex
	broadcast       chan events.Event
	sequenceCounter atomic.Int64
	clientBuffer    int
	done            chan struct{}
	shutdownOnce    sync.Once
}

// NewHub creates a hub with the given queue sizes
func NewHub(broadcastBuffer, clientBuffer int) *Hub {
	return &Hub{
		clients:      make(map[*subscriber]bool),
		broadcast:    make(chan events.Event, broadcastBuffer),
		clientBuffer: clientBuffer,
		done:         make(chan struct{}),
	}
}

// Publish queues an event for broadcast. Non-blocking: if the fan-out
// queue is full the event is dropped and clients catch up on their next
// refresh.
func (h *Hub) Publish(event events.Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("broadcast queue full, event dropped", "type", event.Type)
	}
}

// Run distributes events to subscribed clients until Shutdown is called
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case event := <-h.broadcast:
			event.SequenceID = h.sequenceCounter.Add(1)

			h.mu.RLock()
			for c := range h.clients {
				c.mu.Lock()
				subscribed := event.ProjectID == 0 ||
					c.subscription.ProjectID == 0 ||
					c.subscription.ProjectID == event.ProjectID
				c.mu.Unlock()
				if !subscribed {
					continue
				}

				msg := events.Message{Type: "event", Event: &event}
				select {
				case c.send <- msg:
				default:
					slog.Warn("client send queue full, event dropped")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket subscription
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &subscriber{
		conn: conn,
		send: make(chan events.Message, h.clientBuffer),
	}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	slog.Info("client connected", "total", h.clientCount())

	go h.writePump(c)
	go h.readPump(c)
}

// readPump reads subscribe messages and keeps the connection alive
func (h *Hub) readPump(c *subscriber) {
	defer h.removeClient(c)

	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg events.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "subscribe" && msg.Subscribe != nil {
			c.mu.Lock()
			c.subscription = *msg.Subscribe
			c.mu.Unlock()
			slog.Debug("client subscribed", "project_id", msg.Subscribe.ProjectID)
		}
	}
}

// writePump sends queued messages and periodic pings
func (h *Hub) writePump(c *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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

// Shutdown disconnects all clients and stops the fan-out loop
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		for c := range h.clients {
			_ = c.conn.Close()
			c.close()
		}
		h.clients = make(map[*subscriber]bool)
		h.mu.Unlock()
	})
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) removeClient(c *subscriber) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	_ = c.conn.Close()
	c.close()
	slog.Info("client disconnected", "total", h.clientCount())
}
