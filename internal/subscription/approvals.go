package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
	"github.com/tutorlink/realtime/internal/notify"
)

// Callbacks are the category hooks for purchase-approval notifications, keyed
// by notification_type. All are optional.
type Callbacks struct {
	OnNewRequest          func(n feed.Notification)
	OnRequestStatusChange func(n feed.Notification)
	OnBudgetAlert         func(n feed.Notification)
	OnAutoApproval        func(n feed.Notification)
}

// ApprovalOptions extends Options with the approval feed's push behavior.
type ApprovalOptions struct {
	Options

	Callbacks Callbacks

	// Notifier receives OS-level pushes when EnablePush is set and the
	// notification clears MinPushPriority. Nil disables pushes regardless.
	Notifier        notify.Notifier
	EnablePush      bool
	MinPushPriority string // defaults to normal
}

// ApprovalFeed tracks purchase-approval notifications and sends approval
// acknowledgments back to the platform.
type ApprovalFeed struct {
	*feedBase

	callbacks   Callbacks
	notifier    notify.Notifier
	enablePush  bool
	minPriority string

	mu            sync.RWMutex
	notifications []feed.Notification
}

// NewApprovalFeed builds the purchase-approval facade.
func NewApprovalFeed(opts ApprovalOptions) *ApprovalFeed {
	minPriority := opts.MinPushPriority
	if minPriority == "" {
		minPriority = feed.PriorityNormal
	}

	f := &ApprovalFeed{
		feedBase:    newFeedBase(opts.Options, "purchases/approvals", []string{"purchase_approvals"}),
		callbacks:   opts.Callbacks,
		notifier:    opts.Notifier,
		enablePush:  opts.EnablePush,
		minPriority: minPriority,
	}
	f.disp.Register("purchase_approval_notification", f.onNotification)
	return f
}

func (f *ApprovalFeed) onNotification(data json.RawMessage, ts time.Time) {
	n, err := feed.BuildNotification(data, ts)
	if err != nil {
		f.logger.Error("failed to parse approval notification", "error", err)
		return
	}

	f.mu.Lock()
	f.notifications = feed.PrependNotification(f.notifications, n)
	f.mu.Unlock()

	f.dispatchCallback(n)
	f.push(n)
}

func (f *ApprovalFeed) dispatchCallback(n feed.Notification) {
	var cb func(feed.Notification)
	switch n.Type {
	case feed.NotificationNewRequest:
		cb = f.callbacks.OnNewRequest
	case feed.NotificationStatusChange:
		cb = f.callbacks.OnRequestStatusChange
	case feed.NotificationBudgetAlert:
		cb = f.callbacks.OnBudgetAlert
	case feed.NotificationAutoApproval:
		cb = f.callbacks.OnAutoApproval
	default:
		f.logger.Warn("unhandled notification type", "notification_type", n.Type)
		return
	}
	if cb != nil {
		cb(n)
	}
}

// push forwards the notification to the OS notifier when enabled and the
// priority clears the configured floor. Urgent notifications request
// persistent presentation.
func (f *ApprovalFeed) push(n feed.Notification) {
	if !f.enablePush || f.notifier == nil {
		return
	}
	if !feed.PriorityAtLeast(n.Priority, f.minPriority) {
		return
	}

	f.notifier.Notify(n.Title, n.Message, notify.Options{
		Tag:                n.ID,
		RequireInteraction: n.Priority == feed.PriorityUrgent,
		Data:               map[string]any{"request_id": n.RequestID, "type": n.Type},
	})
}

// approvalAck is the outbound acknowledgment message.
type approvalAck struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// SendAcknowledgment transmits an approve/reject acknowledgment for a
// request. Silently no-ops when not connected; the caller is expected to
// retry after reconnecting.
func (f *ApprovalFeed) SendAcknowledgment(requestID, action string) {
	if !f.IsConnected() {
		f.logger.Warn("not connected, dropping acknowledgment",
			"request_id", requestID,
			"action", action,
		)
		return
	}

	msg := approvalAck{
		Type:      "purchase_approval_ack",
		RequestID: requestID,
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := f.SendMessage(msg); err != nil {
		f.logger.Warn("failed to send acknowledgment", "error", err)
	}
}

// Notifications returns the notification list, newest first.
func (f *ApprovalFeed) Notifications() []feed.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.notifications
}

// UnreadCount returns the number of unread notifications.
func (f *ApprovalFeed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return feed.UnreadCount(f.notifications)
}

// MarkAsRead marks one notification read.
func (f *ApprovalFeed) MarkAsRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = feed.MarkRead(f.notifications, id)
}

// MarkAllAsRead marks every notification read.
func (f *ApprovalFeed) MarkAllAsRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = feed.MarkAllRead(f.notifications)
}

// ClearNotification removes one notification.
func (f *ApprovalFeed) ClearNotification(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = feed.Remove(f.notifications, id)
}

// ClearAllNotifications empties the list.
func (f *ApprovalFeed) ClearAllNotifications() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = nil
}

// SetNotifications seeds the list from a prior REST fetch.
func (f *ApprovalFeed) SetNotifications(list []feed.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = list
}
