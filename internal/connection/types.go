package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrNoToken         = errors.New("no authentication token found")
	ErrClosedPermanent = errors.New("reconnect attempts exhausted")
)

// Error strings surfaced through LastError. These are part of the facade
// contract: the UI layer matches on them.
const (
	errMsgNoToken    = "No authentication token found"
	errMsgDialFailed = "Failed to create WebSocket connection"
)

// State is the connection lifecycle state. Transitions are driven only by
// socket lifecycle events and the reconnection scheduler.
type State string

const (
	StateDisconnected    State = "disconnected"
	StateConnecting      State = "connecting"
	StateConnected       State = "connected"
	StateReconnecting    State = "reconnecting"
	StateClosedPermanent State = "closed_permanent"
)

// Policy controls reconnection after abnormal closures. The attempt counter
// lives on the Manager: it resets to zero on every successful connect and on
// every manual Connect call.
type Policy struct {
	BaseDelay   time.Duration // first retry delay; doubles per attempt
	MaxAttempts int           // attempts before giving up (closed_permanent)
}

// DefaultPolicy returns sensible reconnection defaults.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   1 * time.Second,
		MaxAttempts: 5,
	}
}

// Config configures a Manager.
type Config struct {
	// URL is the channel endpoint without the token query parameter,
	// e.g. wss://api.tutorlink.io/ws/payments/transactions/
	URL string

	Policy Policy

	HandshakeTimeout time.Duration // dial handshake deadline
	WriteTimeout     time.Duration // write deadline for sends
}

// DefaultConfig returns sensible defaults (URL must still be set).
func DefaultConfig() Config {
	return Config{
		Policy:           DefaultPolicy(),
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Policy.BaseDelay == 0 {
		c.Policy.BaseDelay = def.Policy.BaseDelay
	}
	if c.Policy.MaxAttempts == 0 {
		c.Policy.MaxAttempts = def.Policy.MaxAttempts
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
}
