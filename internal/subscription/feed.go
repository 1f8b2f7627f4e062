package subscription

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tutorlink/realtime/internal/auth"
	"github.com/tutorlink/realtime/internal/connection"
	"github.com/tutorlink/realtime/internal/dispatch"
)

// Options configures a feature facade.
type Options struct {
	// BaseURL is the platform websocket origin, e.g. "wss://rt.tutorlink.io".
	// The feature path and token are appended per the platform URL shape
	// <base>/ws/<feature-path>/?token=<token>.
	BaseURL string

	Tokens auth.TokenProvider
	Policy connection.Policy
	Logger *slog.Logger

	// Zero values fall back to the connection package defaults.
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// endpointURL builds the socket URL for a feature path.
func endpointURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/ws/" + path + "/"
}

// subscribeMessage is sent once per successful connection.
type subscribeMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// feedBase wires a connection manager to a dispatcher and handles the
// subscribe-on-connect side effect. Feature facades embed it.
type feedBase struct {
	mgr      *connection.Manager
	disp     *dispatch.Dispatcher
	logger   *slog.Logger
	channels []string
}

func newFeedBase(opts Options, path string, channels []string) *feedBase {
	logger := opts.logger()

	cfg := connection.DefaultConfig()
	cfg.URL = endpointURL(opts.BaseURL, path)
	if opts.Policy.MaxAttempts > 0 {
		cfg.Policy = opts.Policy
	}
	if opts.HandshakeTimeout > 0 {
		cfg.HandshakeTimeout = opts.HandshakeTimeout
	}
	if opts.WriteTimeout > 0 {
		cfg.WriteTimeout = opts.WriteTimeout
	}

	b := &feedBase{
		mgr:      connection.NewManager(cfg, opts.Tokens, logger),
		disp:     dispatch.NewDispatcher(logger),
		logger:   logger,
		channels: channels,
	}
	b.mgr.OnFrame(b.disp.Dispatch)
	b.mgr.OnConnected(b.sendSubscribe)
	return b
}

// sendSubscribe announces the channels of interest. Fired on every successful
// open, so a reconnect re-establishes the subscription.
func (b *feedBase) sendSubscribe() {
	msg := subscribeMessage{Type: "subscribe", Channels: b.channels}
	if err := b.mgr.Send(msg); err != nil {
		b.logger.Warn("failed to send subscribe message", "error", err)
	}
}

// Connect opens the feature's connection.
func (b *feedBase) Connect(ctx context.Context) error {
	return b.mgr.Connect(ctx)
}

// Disconnect closes the connection and cancels any pending reconnect.
func (b *feedBase) Disconnect() {
	b.mgr.Disconnect()
}

// SendMessage writes an arbitrary JSON message to the socket. Dropped with a
// warning when not connected.
func (b *feedBase) SendMessage(v any) error {
	return b.mgr.Send(v)
}

// IsConnected reports whether the socket is open.
func (b *feedBase) IsConnected() bool {
	return b.mgr.IsConnected()
}

// ConnectionState returns the lifecycle state.
func (b *feedBase) ConnectionState() connection.State {
	return b.mgr.State()
}

// Err returns the user-visible connection error, or "" when healthy.
func (b *feedBase) Err() string {
	return b.mgr.LastError()
}
