package feed

import (
	"context"
	"sync"

	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

const maxClients = 64

// Hub tracks connected clients and fans frames out to them
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        logger.Logger
}

// NewHub creates an idle hub; call Run to start it
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 8),
		done:       make(chan struct{}),
		log:        logger.WithPrefix("feed"),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// send stays open: read pumps may still reply, and write pumps exit on done
			close(h.done)
			h.mu.Lock()
			clear(h.clients)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debugf("client %s connected (%d total)", c.remoteAddr, n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Debugf("client %s disconnected", c.remoteAddr)

		case data := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				c.queue(outbound{binary: true, data: data})
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an encoded frame for every client. Frames are dropped
// when the hub is behind.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// join and leave give up once Run has returned
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) full() bool {
	return h.ClientCount() >= maxClients
}
