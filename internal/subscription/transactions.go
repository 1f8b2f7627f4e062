package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// TransactionEvent is one applied transaction update, published on the
// optional Events channel for downstream consumers such as the archive
// journal.
type TransactionEvent struct {
	Action      string // created, status_changed
	Transaction feed.Transaction
	At          time.Time
}

// TransactionFeed tracks the live transaction feed and its status-change
// history.
type TransactionFeed struct {
	*feedBase

	mu    sync.RWMutex
	state feed.TransactionFeedState

	events chan TransactionEvent
}

// NewTransactionFeed builds the transaction facade. eventBuffer > 0 enables
// the Events channel; events are dropped when the buffer is full, so a slow
// consumer never stalls the read loop.
func NewTransactionFeed(opts Options, eventBuffer int) *TransactionFeed {
	f := &TransactionFeed{
		feedBase: newFeedBase(opts, "payments/transactions", []string{"transactions"}),
	}
	if eventBuffer > 0 {
		f.events = make(chan TransactionEvent, eventBuffer)
	}
	f.disp.Register("transaction_update", f.onTransactionUpdate)
	return f
}

func (f *TransactionFeed) onTransactionUpdate(data json.RawMessage, ts time.Time) {
	var probe struct {
		Action      string           `json:"action"`
		Transaction feed.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		f.logger.Error("failed to parse transaction update", "error", err)
		return
	}

	f.mu.Lock()
	next, err := feed.ApplyTransactionUpdate(f.state, data, ts)
	if err != nil {
		f.mu.Unlock()
		f.logger.Error("failed to apply transaction update", "error", err)
		return
	}
	f.state = next
	f.mu.Unlock()

	f.publish(TransactionEvent{Action: probe.Action, Transaction: probe.Transaction, At: ts})
}

func (f *TransactionFeed) publish(ev TransactionEvent) {
	if f.events == nil {
		return
	}
	select {
	case f.events <- ev:
	default:
		f.logger.Warn("transaction event buffer full, dropping event",
			"transaction_id", ev.Transaction.ID,
		)
	}
}

// Events returns the applied-update stream, nil when not enabled.
func (f *TransactionFeed) Events() <-chan TransactionEvent {
	return f.events
}

// Transactions returns the current feed, newest first.
func (f *TransactionFeed) Transactions() []feed.Transaction {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Feed
}

// History returns the status-change history, newest first.
func (f *TransactionFeed) History() []feed.StatusChange {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.History
}

// SetTransactions seeds the feed from a prior REST fetch.
func (f *TransactionFeed) SetTransactions(list []feed.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Feed = list
}
