package feed

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNotification_SynthesizesID(t *testing.T) {
	n, err := BuildNotification([]byte(
		`{"notification_type":"budget_alert","title":"Budget low","message":"80% spent"}`,
	), time.Now())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(n.ID, "notif_"), "id %q should carry the notif_ prefix", n.ID)
	assert.Greater(t, len(n.ID), len("notif_"))
	assert.Equal(t, PriorityNormal, n.Priority)
	assert.False(t, n.Read)
}

func TestBuildNotification_KeepsProvidedID(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n, err := BuildNotification([]byte(
		`{"notification_id":"n_42","notification_type":"new_request","priority":"urgent","request_id":"req_9","actionable":true}`,
	), at)
	require.NoError(t, err)

	assert.Equal(t, "n_42", n.ID)
	assert.Equal(t, PriorityUrgent, n.Priority)
	assert.Equal(t, "req_9", n.RequestID)
	assert.True(t, n.Actionable)
	assert.Equal(t, "2025-06-01T12:00:00Z", n.Timestamp)
}

func TestPrependNotification_Bounded(t *testing.T) {
	var list []Notification
	for i := 0; i < NotificationCapacity+5; i++ {
		list = PrependNotification(list, Notification{ID: fmt.Sprintf("n_%d", i)})
	}

	require.Len(t, list, NotificationCapacity)
	assert.Equal(t, fmt.Sprintf("n_%d", NotificationCapacity+4), list[0].ID)
}

func TestMarkRead(t *testing.T) {
	list := []Notification{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	next := MarkRead(list, "b")
	assert.True(t, next[1].Read)
	assert.False(t, next[0].Read)
	// Receipt never flips read flags; the source list stays untouched.
	assert.False(t, list[1].Read)
	assert.Equal(t, 2, UnreadCount(next))

	// Unknown id is a no-op.
	same := MarkRead(next, "zzz")
	assert.Equal(t, next, same)
}

func TestMarkAllRead(t *testing.T) {
	list := []Notification{{ID: "a"}, {ID: "b", Read: true}, {ID: "c"}}
	next := MarkAllRead(list)
	assert.Equal(t, 0, UnreadCount(next))
	assert.Equal(t, 2, UnreadCount(list))
}

func TestRemoveNotification(t *testing.T) {
	list := []Notification{{ID: "a"}, {ID: "b"}}
	next := Remove(list, "a")
	require.Len(t, next, 1)
	assert.Equal(t, "b", next[0].ID)
}

func TestPriorityAtLeast(t *testing.T) {
	assert.True(t, PriorityAtLeast(PriorityUrgent, PriorityHigh))
	assert.True(t, PriorityAtLeast(PriorityHigh, PriorityHigh))
	assert.False(t, PriorityAtLeast(PriorityLow, PriorityNormal))
	// Unknown priorities rank as normal.
	assert.True(t, PriorityAtLeast("mystery", PriorityNormal))
	assert.False(t, PriorityAtLeast("mystery", PriorityHigh))
}
