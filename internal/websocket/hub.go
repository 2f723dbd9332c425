// Package websocket pushes committed scheduling events to connected
// WebSocket clients.
package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/events"
)

const (
	sendBuffer      = 64
	broadcastBuffer = 256
)

// Client is one connected subscriber. A client with no type filter
// receives every event.
type Client struct {
	send  chan []byte
	types map[events.Type]bool
}

func NewClient(types ...events.Type) *Client {
	c := &Client{send: make(chan []byte, sendBuffer)}
	if len(types) > 0 {
		c.types = make(map[events.Type]bool, len(types))
		for _, t := range types {
			c.types[t] = true
		}
	}
	return c
}

// Send is closed when the hub drops the client.
func (c *Client) Send() <-chan []byte {
	return c.send
}

func (c *Client) wants(t events.Type) bool {
	return c.types == nil || c.types[t]
}

type message struct {
	typ  events.Type
	data []byte
}

// Hub maintains the set of active clients and fans messages out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is
// cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	logger := log.With().Str("component", "ws_hub").Logger()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			logger.Info().Msg("WebSocket hub stopped")
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug().Int("clients", total).Msg("WebSocket client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug().Int("clients", total).Msg("WebSocket client disconnected")

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if !c.wants(msg.typ) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// Slow consumer; it reconnects and catches up from the outbox feed.
					delete(h.clients, c)
					close(c.send)
					logger.Warn().Msg("Dropped slow WebSocket client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues data for every client subscribed to t. It never blocks;
// the message is dropped when the queue is full or the hub has stopped.
func (h *Hub) Broadcast(t events.Type, data []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- message{typ: t, data: data}:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
