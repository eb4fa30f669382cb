package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/events"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
)

const clientBuffer = 32

// Client is a single connected observer.
type Client struct {
	ID       string
	Outbound chan events.Event
	done     chan struct{}
	once     sync.Once
}

// Done is closed when the hub drops the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub fans events out to every connected client. Slow clients lose events
// instead of blocking the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log.With().Str("component", "sse-hub").Logger(),
	}
}

// Subscribe registers a new client. The returned function unsubscribes it.
func (h *Hub) Subscribe() (*Client, func()) {
	client := &Client{
		ID:       uuid.NewString(),
		Outbound: make(chan events.Event, clientBuffer),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		client.close()
		return client, func() {}
	}
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	metrics.SSEClients.Inc()
	h.log.Debug().Str("client_id", client.ID).Msg("client subscribed")
	return client, func() { h.remove(client) }
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if ok {
		metrics.SSEClients.Dec()
		h.log.Debug().Str("client_id", client.ID).Msg("client unsubscribed")
	}
	client.close()
}

// Publish implements events.Publisher for in-process delivery.
func (h *Hub) Publish(_ context.Context, evt events.Event) {
	h.Broadcast(evt)
	metrics.EventsPublishedTotal.WithLabelValues(string(evt.Name), "local").Inc()
}

// Broadcast delivers an event to every client without blocking.
func (h *Hub) Broadcast(evt events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Outbound <- evt:
		default:
			h.log.Warn().Str("client_id", client.ID).Str("event", string(evt.Name)).Msg("dropping event; client buffer full")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.closed = true
	h.mu.Unlock()

	for client := range clients {
		metrics.SSEClients.Dec()
		client.close()
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}
