package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// DisputeFeed tracks payment disputes. Disputes stay visible through their
// whole lifecycle; resolution only changes the status field.
type DisputeFeed struct {
	*feedBase

	mu       sync.RWMutex
	disputes []feed.Dispute
}

// NewDisputeFeed builds the dispute facade.
func NewDisputeFeed(opts Options) *DisputeFeed {
	f := &DisputeFeed{
		feedBase: newFeedBase(opts, "payments/disputes", []string{"disputes"}),
	}
	f.disp.Register("dispute_update", f.onDisputeUpdate)
	return f
}

func (f *DisputeFeed) onDisputeUpdate(data json.RawMessage, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := feed.ApplyDisputeUpdate(f.disputes, data)
	if err != nil {
		f.logger.Error("failed to apply dispute update", "error", err)
		return
	}
	f.disputes = next
}

// Disputes returns the dispute list, newest first.
func (f *DisputeFeed) Disputes() []feed.Dispute {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disputes
}

// SetDisputes seeds the list from a prior REST fetch.
func (f *DisputeFeed) SetDisputes(list []feed.Dispute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disputes = list
}
