package feed

import (
	"encoding/json"
	"fmt"
)

// Balance is the authenticated user's wallet snapshot.
type Balance struct {
	UserID    string  `json:"user_id"`
	Available float64 `json:"available"`
	Pending   float64 `json:"pending"`
	Currency  string  `json:"currency"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// ApplyBalanceUpdate replaces the balance snapshot outright (last-write-wins,
// no merge). Updates carrying a different user id than the authenticated one
// are ignored: several tenant dashboards can share a channel, and a client
// must only ever reflect its own wallet.
func ApplyBalanceUpdate(prev Balance, data []byte, userID string) (Balance, error) {
	var next Balance
	if err := json.Unmarshal(data, &next); err != nil {
		return prev, fmt.Errorf("parse balance update: %w", err)
	}

	if next.UserID != userID {
		return prev, nil
	}
	return next, nil
}
