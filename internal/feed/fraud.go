package feed

import (
	"encoding/json"
	"fmt"
)

// FraudAlert is one entry in the active fraud-alert set.
type FraudAlert struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Severity      string  `json:"severity"`
	Status        string  `json:"status"` // active, investigating, resolved, false_positive
	Reason        string  `json:"reason,omitempty"`
	RiskScore     float64 `json:"risk_score,omitempty"`
	DetectedAt    string  `json:"detected_at,omitempty"`
}

// fraudAlertWire is the data payload of a fraud_alert envelope.
type fraudAlertWire struct {
	Action string     `json:"action,omitempty"` // "resolved" forces removal
	Alert  FraudAlert `json:"alert"`
}

func fraudAlertID(a FraudAlert) string { return a.ID }

// fraudAlertRetained reports whether an alert belongs in the active set.
func fraudAlertRetained(a FraudAlert) bool {
	return a.Status == "active" || a.Status == "investigating"
}

// ApplyFraudAlert reduces one fraud_alert payload against the active set.
//
// Creations and updates upsert by id and then re-apply the status filter:
// an alert that has moved to resolved or false_positive leaves the set. An
// explicit "resolved" action removes the alert regardless of the status it
// reports. Disputes behave differently on purpose; see ApplyDisputeUpdate.
func ApplyFraudAlert(prev []FraudAlert, data []byte) ([]FraudAlert, error) {
	var upd fraudAlertWire
	if err := json.Unmarshal(data, &upd); err != nil {
		return prev, fmt.Errorf("parse fraud alert: %w", err)
	}
	if upd.Alert.ID == "" {
		return prev, fmt.Errorf("fraud alert without id")
	}

	if upd.Action == "resolved" {
		return removeByKey(prev, upd.Alert.ID, fraudAlertID), nil
	}

	next := upsertFront(prev, upd.Alert, fraudAlertID, AlertCapacity)
	return filterKeep(next, fraudAlertRetained), nil
}
