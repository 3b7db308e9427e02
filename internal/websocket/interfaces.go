package websocket

import (
	"context"
	"net"
	"time"

	"unidash/pkg/contracts/domain"
)

// Connection is the subset of *websocket.Conn a client drives.
type Connection interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	RemoteAddr() net.Addr
	Close() error
}

// Renderer runs the dashboard pipeline for a selection.
type Renderer interface {
	Render(ctx context.Context, surface string, sel domain.Selection) (domain.ViewModel, error)
}

// StructValidator validates decoded requests.
type StructValidator interface {
	ValidateStruct(v interface{}) error
}
