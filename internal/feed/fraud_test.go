package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertPayload(id, status string) []byte {
	return []byte(fmt.Sprintf(
		`{"action":"updated","alert":{"id":"%s","severity":"high","status":"%s"}}`, id, status,
	))
}

func TestApplyFraudAlert_FiltersTerminalStatuses(t *testing.T) {
	var alerts []FraudAlert
	var err error

	// One alert per status; only active and investigating survive.
	for i, status := range []string{"active", "investigating", "resolved", "false_positive"} {
		alerts, err = ApplyFraudAlert(alerts, alertPayload(fmt.Sprintf("alert_%d", i), status))
		require.NoError(t, err)
	}

	require.Len(t, alerts, 2)
	assert.Equal(t, "alert_1", alerts[0].ID)
	assert.Equal(t, "investigating", alerts[0].Status)
	assert.Equal(t, "alert_0", alerts[1].ID)
	assert.Equal(t, "active", alerts[1].Status)
}

func TestApplyFraudAlert_TransitionToResolvedDropsAlert(t *testing.T) {
	var alerts []FraudAlert
	var err error

	alerts, err = ApplyFraudAlert(alerts, alertPayload("alert_x", "active"))
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	alerts, err = ApplyFraudAlert(alerts, alertPayload("alert_x", "resolved"))
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestApplyFraudAlert_ResolvedActionRemoves(t *testing.T) {
	var alerts []FraudAlert
	var err error

	alerts, err = ApplyFraudAlert(alerts, alertPayload("alert_a", "active"))
	require.NoError(t, err)
	alerts, err = ApplyFraudAlert(alerts, alertPayload("alert_b", "active"))
	require.NoError(t, err)

	alerts, err = ApplyFraudAlert(alerts, []byte(
		`{"action":"resolved","alert":{"id":"alert_a","status":"active"}}`,
	))
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, "alert_b", alerts[0].ID)
}

func TestApplyDisputeUpdate_RetainsAllStatuses(t *testing.T) {
	var disputes []Dispute
	var err error

	// Disputes are never filtered: a closed dispute still needs review.
	for i, status := range []string{"open", "under_review", "won", "lost"} {
		disputes, err = ApplyDisputeUpdate(disputes, []byte(fmt.Sprintf(
			`{"dispute":{"id":"disp_%d","amount":100,"status":"%s"}}`, i, status,
		)))
		require.NoError(t, err)
	}

	require.Len(t, disputes, 4)
	assert.Equal(t, "disp_3", disputes[0].ID)
	assert.Equal(t, "lost", disputes[0].Status)
}

func TestApplyDisputeUpdate_UpsertByID(t *testing.T) {
	var disputes []Dispute
	var err error

	disputes, err = ApplyDisputeUpdate(disputes, []byte(
		`{"dispute":{"id":"disp_1","status":"open"}}`,
	))
	require.NoError(t, err)
	disputes, err = ApplyDisputeUpdate(disputes, []byte(
		`{"dispute":{"id":"disp_1","status":"won"}}`,
	))
	require.NoError(t, err)

	require.Len(t, disputes, 1)
	assert.Equal(t, "won", disputes[0].Status)
}
