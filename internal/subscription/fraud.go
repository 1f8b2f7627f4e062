package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// FraudAlertFeed tracks the active fraud-alert set.
type FraudAlertFeed struct {
	*feedBase

	mu     sync.RWMutex
	alerts []feed.FraudAlert
}

// NewFraudAlertFeed builds the fraud-alert facade.
func NewFraudAlertFeed(opts Options) *FraudAlertFeed {
	f := &FraudAlertFeed{
		feedBase: newFeedBase(opts, "payments/fraud", []string{"fraud_alerts"}),
	}
	f.disp.Register("fraud_alert", f.onFraudAlert)
	return f
}

func (f *FraudAlertFeed) onFraudAlert(data json.RawMessage, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := feed.ApplyFraudAlert(f.alerts, data)
	if err != nil {
		f.logger.Error("failed to apply fraud alert", "error", err)
		return
	}
	f.alerts = next
}

// Alerts returns the active fraud alerts, newest first.
func (f *FraudAlertFeed) Alerts() []feed.FraudAlert {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.alerts
}

// SetAlerts seeds the active set from a prior REST fetch.
func (f *FraudAlertFeed) SetAlerts(list []feed.FraudAlert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = list
}
