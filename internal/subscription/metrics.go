package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// MetricsFeed tracks the payment metrics snapshot and revenue trend for one
// tenant dashboard.
type MetricsFeed struct {
	*feedBase

	mu    sync.RWMutex
	state feed.MetricsState
}

// NewMetricsFeed builds the metrics facade.
func NewMetricsFeed(opts Options) *MetricsFeed {
	f := &MetricsFeed{
		feedBase: newFeedBase(opts, "payments/metrics", []string{"metrics", "trends"}),
	}
	f.disp.Register("metrics_update", f.onMetricsUpdate)
	return f
}

func (f *MetricsFeed) onMetricsUpdate(data json.RawMessage, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := feed.ApplyMetricsUpdate(f.state, data)
	if err != nil {
		f.logger.Error("failed to apply metrics update", "error", err)
		return
	}
	f.state = next
}

// Metrics returns the current metrics snapshot.
func (f *MetricsFeed) Metrics() feed.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Metrics
}

// Trend returns the current trend data.
func (f *MetricsFeed) Trend() feed.TrendData {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Trend
}

// SetMetrics seeds the snapshot from a prior REST fetch, before the socket
// delivers its first push.
func (f *MetricsFeed) SetMetrics(m feed.MetricsSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Metrics = m
}

// SetTrend seeds the trend data.
func (f *MetricsFeed) SetTrend(t feed.TrendData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Trend = t
}
