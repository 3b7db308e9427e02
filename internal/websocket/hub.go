package websocket

import (
	"context"
	"log/slog"
	"sync"

	"unidash/internal/infrastructure"
)

// Hub tracks the open dashboard sessions. Each session renders its own
// selection; the hub only owns registration and shutdown.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}

	mu      sync.RWMutex
	running bool
	stop    sync.Once

	metrics *infrastructure.DashboardMetrics
	logger  *slog.Logger
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start starts the hub loop. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop closes every session and waits for the hub loop to exit.
func (h *Hub) Stop() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	h.stop.Do(func() { close(h.quit) })
	if running {
		<-h.done
	}
}

// Register adds c to the hub. It returns false once the hub is stopping.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes c and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// ClientCount returns the number of open sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for c := range h.clients {
				h.remove(ctx, c)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()

			if h.metrics != nil {
				h.metrics.WebSocketSessions.Add(ctx, 1)
			}
			h.logger.InfoContext(c.context(), "Client registered",
				slog.String("client_id", c.id),
				slog.String("remote_addr", c.remoteAddr),
				slog.Int("total_clients", count))

		case c := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[c]
			if ok {
				h.remove(ctx, c)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				h.logger.InfoContext(c.context(), "Client unregistered",
					slog.String("client_id", c.id),
					slog.Int("total_clients", count))
			}
		}
	}
}

// remove drops c from the set. The caller holds h.mu.
func (h *Hub) remove(ctx context.Context, c *Client) {
	delete(h.clients, c)
	c.closeSend()
	if h.metrics != nil {
		h.metrics.WebSocketSessions.Add(ctx, -1)
	}
}
