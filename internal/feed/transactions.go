package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

// Transaction is one entry in the live payment feed.
type Transaction struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id,omitempty"`
	StudentName   string  `json:"student_name,omitempty"`
	TutorName     string  `json:"tutor_name,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// StatusChange records one observed transaction status transition.
type StatusChange struct {
	TransactionID string
	OldStatus     string
	NewStatus     string
	At            time.Time
}

// TransactionFeedState holds the bounded live feed plus a longer bounded
// history of status transitions.
type TransactionFeedState struct {
	Feed    []Transaction
	History []StatusChange
}

// transactionUpdateWire is the data payload of a transaction_update envelope.
type transactionUpdateWire struct {
	Action      string      `json:"action"` // "created" or "status_changed"
	Transaction Transaction `json:"transaction"`
}

func transactionID(t Transaction) string { return t.ID }

// ApplyTransactionUpdate reduces one transaction_update payload.
//
// "created" prepends the transaction (newest first), evicting past capacity.
// "status_changed" replaces the matching entry's fields in place without
// moving it, and records the transition in the history; updates for unknown
// ids are dropped.
func ApplyTransactionUpdate(prev TransactionFeedState, data []byte, at time.Time) (TransactionFeedState, error) {
	var upd transactionUpdateWire
	if err := json.Unmarshal(data, &upd); err != nil {
		return prev, fmt.Errorf("parse transaction update: %w", err)
	}
	if upd.Transaction.ID == "" {
		return prev, fmt.Errorf("transaction update without id")
	}

	next := prev

	switch upd.Action {
	case "created":
		next.Feed = upsertFront(prev.Feed, upd.Transaction, transactionID, TransactionFeedCapacity)

	case "status_changed":
		var old string
		for _, t := range prev.Feed {
			if t.ID == upd.Transaction.ID {
				old = t.Status
				break
			}
		}

		feed, found := replaceByKey(prev.Feed, upd.Transaction.ID, transactionID, upd.Transaction)
		if !found {
			return prev, nil
		}
		next.Feed = feed
		next.History = upsertFront(prev.History, StatusChange{
			TransactionID: upd.Transaction.ID,
			OldStatus:     old,
			NewStatus:     upd.Transaction.Status,
			At:            at,
		}, func(StatusChange) string { return "" }, StatusHistoryCapacity)

	default:
		return prev, fmt.Errorf("unknown transaction action %q", upd.Action)
	}

	return next, nil
}
