package subscription

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/realtime/internal/feed"
	"github.com/tutorlink/realtime/internal/notify"
)

// recordingNotifier captures pushes for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []struct {
		Title, Body string
		Opts        notify.Options
	}
}

func (n *recordingNotifier) Notify(title, body string, opts notify.Options) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, struct {
		Title, Body string
		Opts        notify.Options
	}{title, body, opts})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *recordingNotifier) last() (string, string, notify.Options) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := n.calls[len(n.calls)-1]
	return c.Title, c.Body, c.Opts
}

func TestApprovalFeed_CallbacksAndPush(t *testing.T) {
	s := newWSServer(t)
	notifier := &recordingNotifier{}

	var gotNew []feed.Notification
	var mu sync.Mutex

	f := NewApprovalFeed(ApprovalOptions{
		Options: testOptions(s),
		Callbacks: Callbacks{
			OnNewRequest: func(n feed.Notification) {
				mu.Lock()
				gotNew = append(gotNew, n)
				mu.Unlock()
			},
		},
		Notifier:        notifier,
		EnablePush:      true,
		MinPushPriority: feed.PriorityHigh,
	})

	require.NoError(t, f.Connect(context.Background()))
	defer f.Disconnect()
	conn := s.accept(t)

	// Urgent clears the high floor; pushed with persistent presentation.
	s.push(t, conn, `{"type":"purchase_approval_notification","timestamp":"2025-06-01T12:00:00Z",`+
		`"data":{"notification_type":"new_request","title":"Approval needed","message":"Course bundle $120",`+
		`"priority":"urgent","request_id":"req_1","actionable":true}}`)

	require.Eventually(t, func() bool {
		return len(f.Notifications()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	require.Len(t, gotNew, 1)
	assert.Equal(t, "req_1", gotNew[0].RequestID)
	mu.Unlock()

	require.Eventually(t, func() bool { return notifier.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	title, _, opts := notifier.last()
	assert.Equal(t, "Approval needed", title)
	assert.True(t, opts.RequireInteraction)

	// Normal priority is below the floor: stored, callback skipped (no
	// status-change hook registered), not pushed.
	s.push(t, conn, `{"type":"purchase_approval_notification",`+
		`"data":{"notification_type":"status_change","title":"Approved","message":"req_1 approved","priority":"normal"}}`)

	require.Eventually(t, func() bool {
		return len(f.Notifications()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, notifier.count())
}

func TestApprovalFeed_SynthesizedIDs(t *testing.T) {
	s := newWSServer(t)
	f := NewApprovalFeed(ApprovalOptions{Options: testOptions(s)})

	require.NoError(t, f.Connect(context.Background()))
	defer f.Disconnect()
	conn := s.accept(t)

	s.push(t, conn, `{"type":"purchase_approval_notification",`+
		`"data":{"notification_type":"budget_alert","title":"Budget","message":"80% spent"}}`)

	require.Eventually(t, func() bool {
		return len(f.Notifications()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, strings.HasPrefix(f.Notifications()[0].ID, "notif_"))
}

func TestApprovalFeed_ReadStateMutators(t *testing.T) {
	f := NewApprovalFeed(ApprovalOptions{Options: Options{BaseURL: "ws://unused"}})
	f.SetNotifications([]feed.Notification{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.Equal(t, 3, f.UnreadCount())

	f.MarkAsRead("b")
	assert.Equal(t, 2, f.UnreadCount())

	f.ClearNotification("a")
	assert.Len(t, f.Notifications(), 2)

	f.MarkAllAsRead()
	assert.Equal(t, 0, f.UnreadCount())

	f.ClearAllNotifications()
	assert.Empty(t, f.Notifications())
}

func TestApprovalFeed_SendAcknowledgment(t *testing.T) {
	s := newWSServer(t)
	f := NewApprovalFeed(ApprovalOptions{Options: testOptions(s)})

	// Not connected: silent no-op, nothing transmitted.
	f.SendAcknowledgment("req_9", "approve")
	assert.Empty(t, s.received())

	require.NoError(t, f.Connect(context.Background()))
	defer f.Disconnect()
	s.accept(t)

	// Wait out the subscribe message so indexes are stable.
	require.Eventually(t, func() bool {
		return len(s.received()) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	f.SendAcknowledgment("req_9", "approve")

	require.Eventually(t, func() bool {
		return len(s.received()) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	var ack struct {
		Type      string `json:"type"`
		RequestID string `json:"request_id"`
		Action    string `json:"action"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(s.received()[1], &ack))
	assert.Equal(t, "purchase_approval_ack", ack.Type)
	assert.Equal(t, "req_9", ack.RequestID)
	assert.Equal(t, "approve", ack.Action)

	_, err := time.Parse(time.RFC3339, ack.Timestamp)
	assert.NoError(t, err)
}
