// Package dispatch implements the inbound message dispatcher.
//
// Every frame is parsed as a JSON envelope {type, data, timestamp} and routed
// to the handler registered for its type. A malformed frame or an unknown
// type is logged and dropped; it never affects connection state, and a
// panicking handler cannot take down the stream.
package dispatch

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Envelope is the wire shape of every inbound message.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"` // ISO 8601
}

// Handler processes the data payload of one envelope. The timestamp is the
// server-reported envelope time, zero when absent or unparseable.
type Handler func(data json.RawMessage, timestamp time.Time)

// Dispatcher routes envelopes to type-keyed handlers. Registration happens
// before the connection opens; Dispatch is then called from the connection's
// single read goroutine, so no locking is needed.
type Dispatcher struct {
	logger   *slog.Logger
	handlers map[string]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// Register installs the handler for a message type, replacing any previous
// registration.
func (d *Dispatcher) Register(msgType string, h Handler) {
	d.handlers[msgType] = h
}

// Dispatch parses one raw frame and invokes the matching handler.
//
// Failure handling is deliberately absorbing: parse errors and unknown types
// are developer-visible only (logged), because a single malformed push must
// never degrade the rest of the session.
func (d *Dispatcher) Dispatch(frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		d.logger.Error("failed to parse message frame", "error", err)
		return
	}

	h, ok := d.handlers[env.Type]
	if !ok {
		d.logger.Warn("unhandled message type", "type", env.Type)
		return
	}

	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		ts = time.Time{}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("message handler panicked",
				"type", env.Type,
				"panic", r,
			)
		}
	}()

	h(env.Data, ts)
}
