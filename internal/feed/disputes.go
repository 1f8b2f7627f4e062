package feed

import (
	"encoding/json"
	"fmt"
)

// Dispute is one entry in the dispute list. Unlike fraud alerts, disputes
// remain visible after resolution; only their status field changes.
type Dispute struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Status        string  `json:"status"` // open, under_review, won, lost, resolved
	Reason        string  `json:"reason,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	OpenedAt      string  `json:"opened_at,omitempty"`
	DueBy         string  `json:"due_by,omitempty"`
}

// disputeUpdateWire is the data payload of a dispute_update envelope.
type disputeUpdateWire struct {
	Dispute Dispute `json:"dispute"`
}

func disputeID(d Dispute) string { return d.ID }

// ApplyDisputeUpdate upserts a dispute by id. There is no removal path:
// resolved disputes stay on the list with their final status.
func ApplyDisputeUpdate(prev []Dispute, data []byte) ([]Dispute, error) {
	var upd disputeUpdateWire
	if err := json.Unmarshal(data, &upd); err != nil {
		return prev, fmt.Errorf("parse dispute update: %w", err)
	}
	if upd.Dispute.ID == "" {
		return prev, fmt.Errorf("dispute update without id")
	}

	return upsertFront(prev, upd.Dispute, disputeID, AlertCapacity), nil
}
