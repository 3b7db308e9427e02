package websocket

import (
	"encoding/json"
	"errors"
	"time"

	apperrors "unidash/internal/errors"
	"unidash/pkg/contracts/domain"
)

// Message types
const (
	// Client to server
	TypeSelect    = "select"
	TypeHeartbeat = "heartbeat"

	// Server to client
	TypeConnection = "connection"
	TypeDashboard  = "dashboard"
	TypeError      = "error"
)

// Request is a message sent by the browser.
type Request struct {
	Type      string                   `json:"type"`
	ID        string                   `json:"id,omitempty"`
	Selection *domain.SelectionRequest `json:"selection,omitempty"`
}

// Response is a message sent to the browser.
type Response struct {
	Type      string        `json:"type"`
	ID        string        `json:"id,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *ErrorPayload `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ErrorPayload describes a request that could not be served.
type ErrorPayload struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func newResponse(msgType, id string, data interface{}) Response {
	return Response{Type: msgType, ID: id, Data: data, Timestamp: time.Now().UTC()}
}

func errorResponse(id string, err error) Response {
	payload := &ErrorPayload{Code: apperrors.CodeInternal, Message: "render failed"}

	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		payload = &ErrorPayload{Code: apiErr.ErrorCode, Message: apiErr.Message, Details: apiErr.Details}
	}

	return Response{Type: TypeError, ID: id, Error: payload, Timestamp: time.Now().UTC()}
}

func encode(r Response) ([]byte, error) {
	return json.Marshal(r)
}
