package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"unidash/internal/config"
	apperrors "unidash/internal/errors"
	"unidash/internal/infrastructure"
)

// Handler upgrades HTTP requests to dashboard sessions.
type Handler struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	renderer     Renderer
	validator    StructValidator
	cfg          config.WebSocketConfig
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewHandler creates a session handler. An empty allowedOrigins list, or one
// containing "*", accepts every origin.
func NewHandler(hub *Hub, renderer Renderer, validator StructValidator, cfg config.WebSocketConfig, allowedOrigins []string, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &Handler{
		hub:          hub,
		renderer:     renderer,
		validator:    validator,
		cfg:          cfg,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     originChecker(allowedOrigins),
		Error:           h.upgradeError,
	}
	return h
}

// ServeHTTP upgrades the connection, sends the connection message and the
// unfiltered dashboard, then serves requests until the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	// Sessions outlive any request deadline but keep its values.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	client := NewClient(h.hub, conn, h.renderer, h.validator, h.cfg,
		infrastructure.GetTraceID(r.Context()), h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", client.remoteAddr))

	client.enqueue(newResponse(TypeConnection, "", map[string]string{
		"client_id": client.ID(),
		"status":    "connected",
	}))
	client.enqueue(client.render(ctx, "", nil))

	go client.WritePump()
	client.ReadPump(ctx)
}

func (h *Handler) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	apiErr := apperrors.NewWithDetails(status, apperrors.CodeWebSocketUpgrade,
		apperrors.ErrWebSocketUpgrade.Message, reason.Error())
	if h.errorHandler == nil {
		http.Error(w, apiErr.Message, status)
		return
	}
	h.errorHandler.HandleError(w, r, apiErr)
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}
