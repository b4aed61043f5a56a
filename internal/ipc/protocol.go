package ipc

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/1broseidon/deskcore/internal/desktop"
	"github.com/1broseidon/deskcore/internal/event"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandInjectEvent CommandType = "INJECT_EVENT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	desktop.Snapshot
	Host          string `json:"host"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// InjectPayload describes an event for INJECT_EVENT. Kind uses the event
// wire names ("pointer_down", "key_down", "timer_tick", ...).
type InjectPayload struct {
	Kind   string `json:"kind"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Code   uint8  `json:"code,omitempty"`
	Char   string `json:"char,omitempty"`
	Millis uint32 `json:"millis,omitempty"`
}

// Event converts the payload to a desktop event.
func (p InjectPayload) Event() (event.Event, error) {
	kind, err := event.ParseKind(p.Kind)
	if err != nil {
		return event.Event{}, err
	}
	switch {
	case kind.IsPointer():
		return event.Pointer(kind, p.X, p.Y), nil
	case kind.IsKey():
		var ch rune
		if p.Char != "" {
			if utf8.RuneCountInString(p.Char) != 1 {
				return event.Event{}, fmt.Errorf("char must be a single character, got %q", p.Char)
			}
			ch, _ = utf8.DecodeRuneInString(p.Char)
		}
		return event.Key(kind, p.Code, ch), nil
	case kind == event.TimerTick:
		return event.Tick(p.Millis), nil
	}
	return event.Event{}, fmt.Errorf("cannot inject %q events", p.Kind)
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
