package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"unidash/internal/config"
	apperrors "unidash/internal/errors"
	"unidash/internal/infrastructure"
	"unidash/pkg/contracts/domain"
)

// sendBuffer is the number of outbound messages queued per client.
const sendBuffer = 16

// surface is the render surface reported for WebSocket renders.
const surface = "websocket"

// Client is one browser session. ReadPump turns selection requests into
// rendered view-models; WritePump delivers them and keeps the connection alive.
type Client struct {
	hub  *Hub
	conn Connection

	mu     sync.Mutex
	send   chan []byte
	closed bool

	renderer  Renderer
	validator StructValidator
	cfg       config.WebSocketConfig

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	logger      *slog.Logger

	// Owned by the read and write pumps respectively.
	messagesReceived int64
	messagesSent     int64
}

// NewClient creates a session for conn.
func NewClient(hub *Hub, conn Connection, renderer Renderer, validator StructValidator, cfg config.WebSocketConfig, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	id := uuid.New().String()

	remoteAddr := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remoteAddr = addr.String()
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		renderer:    renderer,
		validator:   validator,
		cfg:         cfg,
		id:          id,
		traceID:     traceID,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ID returns the session identifier.
func (c *Client) ID() string { return c.id }

// context carries the client's trace ID for log correlation.
func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads requests until the connection fails or ctx is done.
// It unregisters the client on return.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.logger.InfoContext(c.context(), "WebSocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.WarnContext(c.context(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.messagesReceived++

		if resp, ok := c.handle(ctx, bytes.TrimSpace(message)); ok {
			c.enqueue(resp)
		}
	}
}

// handle produces the reply for one request; ok is false when none is due.
func (c *Client) handle(ctx context.Context, message []byte) (Response, bool) {
	var req Request
	if err := json.Unmarshal(message, &req); err != nil {
		return errorResponse("", apperrors.InvalidRequestWithError(err)), true
	}

	switch req.Type {
	case TypeHeartbeat:
		return Response{}, false
	case TypeSelect:
		return c.render(ctx, req.ID, req.Selection), true
	default:
		return errorResponse(req.ID, apperrors.InvalidParameter("type", req.Type)), true
	}
}

// render validates the request and runs the pipeline. A missing selection
// means every axis is unset.
func (c *Client) render(ctx context.Context, id string, req *domain.SelectionRequest) Response {
	var sel domain.Selection
	if req != nil {
		if err := c.validator.ValidateStruct(req); err != nil {
			return errorResponse(id, err)
		}
		sel = req.ToSelection()
	}

	vm, err := c.renderer.Render(ctx, surface, sel)
	if err != nil {
		c.logger.WarnContext(c.context(), "render failed", slog.String("error", err.Error()))
		return errorResponse(id, err)
	}
	return newResponse(TypeDashboard, id, vm)
}

// enqueue queues resp for the write pump, dropping it when the client is
// too slow to keep up.
func (c *Client) enqueue(resp Response) {
	data, err := encode(resp)
	if err != nil {
		c.logger.ErrorContext(c.context(), "failed to encode message", slog.String("error", err.Error()))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.WarnContext(c.context(), "send buffer full, message dropped",
			slog.String("type", resp.Type))
	}
}

// closeSend closes the send channel once, which stops the write pump.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump writes queued messages and pings until the send channel is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(c.context(), "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.WarnContext(c.context(), "WebSocket write failed", slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
