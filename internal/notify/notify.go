// Package notify defines the OS-level push notification contract.
//
// The engine only ever invokes Notify and never waits on it for correctness;
// whether a notification actually surfaces is the host platform's concern.
package notify

import "log/slog"

// Options mirror the presentation hints passed to the host notification
// surface.
type Options struct {
	Icon  string
	Badge string
	// Tag collapses repeated notifications for the same subject.
	Tag string
	// RequireInteraction keeps the notification on screen until dismissed.
	// Set for urgent-priority purchase approvals.
	RequireInteraction bool
	Data               map[string]any
}

// Notifier delivers an OS-level notification. Implementations must not block.
type Notifier interface {
	Notify(title, body string, opts Options)
}

// SlogNotifier logs notifications instead of surfacing them. Used by the
// monitor CLI and anywhere no native notification surface exists.
type SlogNotifier struct {
	Logger *slog.Logger
}

func (n SlogNotifier) Notify(title, body string, opts Options) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("push notification",
		"title", title,
		"body", body,
		"tag", opts.Tag,
		"require_interaction", opts.RequireInteraction,
	)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(title, body string, opts Options) {}
