package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// BalanceFeed tracks the authenticated user's wallet balance. Updates for any
// other user id on the channel are ignored.
type BalanceFeed struct {
	*feedBase

	userID string

	mu      sync.RWMutex
	balance feed.Balance
}

// NewBalanceFeed builds the balance facade scoped to userID.
func NewBalanceFeed(opts Options, userID string) *BalanceFeed {
	f := &BalanceFeed{
		feedBase: newFeedBase(opts, "payments/balance", []string{"balance"}),
		userID:   userID,
	}
	f.disp.Register("balance_update", f.onBalanceUpdate)
	return f
}

func (f *BalanceFeed) onBalanceUpdate(data json.RawMessage, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := feed.ApplyBalanceUpdate(f.balance, data, f.userID)
	if err != nil {
		f.logger.Error("failed to apply balance update", "error", err)
		return
	}
	f.balance = next
}

// Balance returns the current wallet snapshot.
func (f *BalanceFeed) Balance() feed.Balance {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.balance
}

// SetBalance seeds the snapshot from a prior REST fetch.
func (f *BalanceFeed) SetBalance(b feed.Balance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance = b
}
