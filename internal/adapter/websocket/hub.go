package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
)

// Envelope types on the live feed.
const (
	TypeTransaction = "transaction"
	TypeEvent       = "event"
	TypeUpdate      = "update"
)

// Envelope is one live feed frame.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Feed is the subscription surface the hub broadcasts.
type Feed interface {
	OnTransaction(fn func(domain.Transaction)) notify.Unsubscribe
	OnSystemEvent(fn func(domain.SystemEvent)) notify.Unsubscribe
	OnUpdate(fn func(notify.Update)) notify.Unsubscribe
}

// Conn is the part of a websocket connection the hub uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound frames for every client.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	sendBuffer int
	unsubs     []notify.Unsubscribe
	log        *zap.Logger

	mu sync.RWMutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn Conn
	// Buffered channel of outbound messages.
	send chan []byte
	id   string
}

func NewHub(sendBuffer int, log *zap.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
		log:        log,
	}
}

// Run serves registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			telemetry.LiveFeedClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
			h.log.Info("Live feed client connected", zap.String("client_id", client.id))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Info("Live feed client disconnected", zap.String("client_id", client.id))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					h.drop(client)
					h.log.Warn("Live feed client too slow, dropped", zap.String("client_id", client.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	telemetry.LiveFeedClients.Set(float64(len(h.clients)))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach subscribes the hub to feed. Detach undoes it.
func (h *Hub) Attach(feed Feed) {
	h.unsubs = append(h.unsubs,
		feed.OnTransaction(func(tx domain.Transaction) { h.Broadcast(TypeTransaction, tx) }),
		feed.OnSystemEvent(func(ev domain.SystemEvent) { h.Broadcast(TypeEvent, ev) }),
		feed.OnUpdate(func(u notify.Update) { h.Broadcast(TypeUpdate, u) }),
	)
}

func (h *Hub) Detach() {
	for _, unsubscribe := range h.unsubs {
		unsubscribe()
	}
	h.unsubs = nil
}

// Broadcast wraps data in an envelope and queues it for every client. It
// never blocks; frames are dropped while the hub is saturated.
func (h *Hub) Broadcast(kind string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error("Failed to encode live feed payload", zap.String("type", kind), zap.Error(err))
		return
	}
	frame, err := json.Marshal(Envelope{Type: kind, Data: payload})
	if err != nil {
		h.log.Error("Failed to encode live feed envelope", zap.String("type", kind), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		h.log.Debug("Live feed saturated, frame dropped", zap.String("type", kind))
	}
}

// Serve registers conn and pumps frames to it. It blocks until the client
// goes away, as the websocket handler must not return earlier.
func (h *Hub) Serve(conn Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, h.sendBuffer), id: uuid.NewString()}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// The feed is push-only; reading keeps control frames flowing and
		// notices disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
