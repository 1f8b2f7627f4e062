package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tutorlink/realtime/internal/auth"
)

// Manager owns one WebSocket connection's lifecycle: token-gated dialing,
// the read loop, and reconnection with exponential backoff. It holds no
// business state; inbound frames are handed to the OnFrame callback in
// transport order.
type Manager struct {
	cfg    Config
	tokens auth.TokenProvider
	logger *slog.Logger

	// Callbacks, set before Connect.
	onFrame     func(frame []byte)
	onConnected func()
	onError     func(err error)

	mu         sync.Mutex
	state      State
	lastErr    string
	attempt    int
	conn       *websocket.Conn
	gen        uint64 // connection generation; stale read loops are ignored
	retryTimer *time.Timer

	writeMu sync.Mutex
}

// NewManager creates a connection manager. The token provider is consulted
// before every connection attempt.
func NewManager(cfg Config, tokens auth.TokenProvider, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()

	return &Manager{
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
		state:  StateDisconnected,
	}
}

// OnFrame registers the inbound frame handler. Frames are delivered from a
// single goroutine in the order the transport produced them.
func (m *Manager) OnFrame(fn func(frame []byte)) {
	m.onFrame = fn
}

// OnConnected registers the connected side effect, fired after every
// successful open (initial connect and each reconnect). Used by facades to
// send their subscribe message.
func (m *Manager) OnConnected(fn func()) {
	m.onConnected = fn
}

// OnError registers an observer for transport errors. The callback does not
// drive reconnection; the close handling that follows the error does.
func (m *Manager) OnError(fn func(err error)) {
	m.onError = fn
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether the socket is currently open.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// LastError returns the most recent user-visible error, or "" when healthy.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Connect opens the connection. No-op when already connecting or connected.
// A manual Connect resets the backoff counter, so a user can retry after the
// manager has given up (closed_permanent) or after logging in.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateConnecting || m.state == StateConnected {
		m.mu.Unlock()
		return nil
	}
	m.stopRetryLocked()
	m.attempt = 0
	m.gen++ // invalidate any in-flight redial
	epoch := m.gen
	m.mu.Unlock()

	return m.dial(ctx, true, epoch)
}

// Disconnect closes the socket with the normal-closure code and cancels any
// pending reconnect timer. Safe to call in any state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.stopRetryLocked()
	m.gen++ // invalidate the read loop and any in-flight redial
	conn := m.conn
	m.conn = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		)
		conn.Close()
		m.logger.Debug("websocket disconnected")
	}
}

// Send marshals v as JSON and writes it to the socket. When not connected
// the message is dropped with a warning; nothing is queued for replay.
func (m *Manager) Send(v any) error {
	m.mu.Lock()
	conn := m.conn
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || conn == nil {
		m.logger.Warn("not connected, dropping outbound message")
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// dial performs one connection attempt. Manual attempts surface failures to
// the caller without scheduling retries; attempts fired by the backoff timer
// continue the backoff cycle on failure.
//
// The epoch pins the attempt to the generation it was started for. Disconnect
// and Connect both bump the generation, so an attempt that was overtaken while
// awaiting the token or the handshake stands down instead of reopening a
// socket into a torn-down manager.
func (m *Manager) dial(ctx context.Context, manual bool, epoch uint64) error {
	token, err := m.tokens.Token(ctx)

	m.mu.Lock()
	if m.gen != epoch {
		// Disconnect landed while the token lookup was in flight.
		m.mu.Unlock()
		return nil
	}
	if err != nil || token == "" {
		m.state = StateDisconnected
		m.lastErr = errMsgNoToken
		m.mu.Unlock()
		if err != nil {
			m.logger.Error("token lookup failed", "error", err)
		} else {
			m.logger.Warn("no auth token, connection aborted")
		}
		return ErrNoToken
	}
	m.state = StateConnecting
	m.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}

	endpoint := m.cfg.URL + "?token=" + url.QueryEscape(token)
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		m.mu.Lock()
		if m.gen != epoch {
			m.mu.Unlock()
			return nil
		}
		if manual {
			m.state = StateDisconnected
			m.lastErr = errMsgDialFailed
			m.mu.Unlock()
			m.logger.Error("websocket dial failed", "url", m.cfg.URL, "error", err)
			return fmt.Errorf("dial %s: %w", m.cfg.URL, err)
		}
		m.mu.Unlock()
		m.logger.Warn("reconnect dial failed", "url", m.cfg.URL, "error", err)
		m.scheduleRetry(epoch)
		return err
	}

	m.mu.Lock()
	if m.gen != epoch {
		// Overtaken during the handshake; discard the fresh socket.
		m.mu.Unlock()
		conn.Close()
		return nil
	}
	m.conn = conn
	m.state = StateConnected
	m.attempt = 0
	m.lastErr = ""
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.logger.Debug("websocket connected", "url", m.cfg.URL)

	go m.readLoop(conn, gen)

	if m.onConnected != nil {
		m.onConnected()
	}

	return nil
}

// readLoop reads frames until the socket errors or closes. It is the only
// reader, so frame delivery order matches transport order.
func (m *Manager) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClosed(gen, err)
			return
		}
		if m.onFrame != nil {
			m.onFrame(data)
		}
	}
}

// handleClosed classifies a read failure. Normal closure means an intentional
// disconnect and never retries; anything else enters the backoff cycle.
func (m *Manager) handleClosed(gen uint64, err error) {
	m.mu.Lock()
	if gen != m.gen {
		// Disconnect() or a newer connection already took over.
		m.mu.Unlock()
		return
	}
	m.conn = nil

	if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		m.state = StateDisconnected
		m.mu.Unlock()
		m.logger.Debug("normal closure, not reconnecting")
		return
	}

	m.lastErr = err.Error()
	m.mu.Unlock()

	m.logger.Warn("connection lost", "error", err)
	if m.onError != nil {
		m.onError(err)
	}
	m.scheduleRetry(gen)
}

// scheduleRetry arms the backoff timer for the next reconnection attempt,
// or gives up once the attempt budget is spent. The epoch is re-verified
// under the lock: a Disconnect that landed since the caller observed the
// failure must not be overridden by a late retry.
func (m *Manager) scheduleRetry(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != epoch {
		return
	}
	if m.attempt >= m.cfg.Policy.MaxAttempts {
		m.state = StateClosedPermanent
		m.logger.Warn("max reconnect attempts reached, giving up",
			"attempts", m.attempt,
		)
		return
	}

	m.state = StateReconnecting
	delay := m.cfg.Policy.BaseDelay << m.attempt
	m.attempt++

	m.logger.Info("scheduling reconnect",
		"attempt", m.attempt,
		"max_attempts", m.cfg.Policy.MaxAttempts,
		"delay", delay,
	)

	m.retryTimer = time.AfterFunc(delay, func() { m.retryConnect(epoch) })
}

// retryConnect is the backoff timer callback.
func (m *Manager) retryConnect(epoch uint64) {
	m.mu.Lock()
	if m.gen != epoch || m.state != StateReconnecting {
		// Disconnect or manual Connect raced the timer; stand down.
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.dial(context.Background(), false, epoch)
}

// stopRetryLocked cancels a pending reconnect timer. Caller holds m.mu.
func (m *Manager) stopRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}
