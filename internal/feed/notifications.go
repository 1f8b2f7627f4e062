package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification categories carried in notification_type.
const (
	NotificationNewRequest   = "new_request"
	NotificationStatusChange = "status_change"
	NotificationBudgetAlert  = "budget_alert"
	NotificationAutoApproval = "auto_approval"
)

// Notification priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var priorityRank = map[string]int{
	PriorityLow:    0,
	PriorityNormal: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

// PriorityAtLeast reports whether p ranks at or above min. Unknown
// priorities rank as normal.
func PriorityAtLeast(p, min string) bool {
	rank := func(s string) int {
		if r, ok := priorityRank[s]; ok {
			return r
		}
		return priorityRank[PriorityNormal]
	}
	return rank(p) >= rank(min)
}

// Notification is one purchase-approval notification record. Read starts
// false and is mutated only by explicit mark-as-read operations, never by
// message receipt.
type Notification struct {
	ID         string `json:"id"`
	Type       string `json:"type"` // notification_type category
	Title      string `json:"title"`
	Message    string `json:"message"`
	Priority   string `json:"priority"`
	Timestamp  string `json:"timestamp"` // ISO 8601
	Read       bool   `json:"read"`
	Actionable bool   `json:"actionable"`
	RequestID  string `json:"request_id,omitempty"`
}

// notificationWire is the data payload of a purchase_approval_notification
// envelope.
type notificationWire struct {
	NotificationID   string `json:"notification_id"`
	NotificationType string `json:"notification_type"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
	RequestID        string `json:"request_id"`
	Actionable       bool   `json:"actionable"`
}

func notificationID(n Notification) string { return n.ID }

// BuildNotification converts a wire payload into a Notification. A missing
// notification_id gets a synthesized "notif_" id so mark-as-read and clear
// operations always have a stable key.
func BuildNotification(data []byte, at time.Time) (Notification, error) {
	var upd notificationWire
	if err := json.Unmarshal(data, &upd); err != nil {
		return Notification{}, fmt.Errorf("parse notification: %w", err)
	}

	id := upd.NotificationID
	if id == "" {
		id = "notif_" + uuid.NewString()
	}
	priority := upd.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	return Notification{
		ID:         id,
		Type:       upd.NotificationType,
		Title:      upd.Title,
		Message:    upd.Message,
		Priority:   priority,
		Timestamp:  at.UTC().Format(time.RFC3339),
		Read:       false,
		Actionable: upd.Actionable,
		RequestID:  upd.RequestID,
	}, nil
}

// PrependNotification adds a notification to the head of the list, capped at
// NotificationCapacity. A repeated id updates the existing entry in place.
func PrependNotification(prev []Notification, n Notification) []Notification {
	return upsertFront(prev, n, notificationID, NotificationCapacity)
}

// MarkRead returns a new list with the matching notification marked read.
func MarkRead(prev []Notification, id string) []Notification {
	for i, n := range prev {
		if n.ID == id && !n.Read {
			out := make([]Notification, len(prev))
			copy(out, prev)
			out[i].Read = true
			return out
		}
	}
	return prev
}

// MarkAllRead returns a new list with every notification marked read.
func MarkAllRead(prev []Notification) []Notification {
	out := make([]Notification, len(prev))
	copy(out, prev)
	for i := range out {
		out[i].Read = true
	}
	return out
}

// Remove returns a new list without the matching notification.
func Remove(prev []Notification, id string) []Notification {
	return removeByKey(prev, id, notificationID)
}

// UnreadCount counts notifications not yet marked read.
func UnreadCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}
