package subscription

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tutorlink/realtime/internal/feed"
)

// WebhookHealthFeed tracks delivery health per webhook endpoint.
type WebhookHealthFeed struct {
	*feedBase

	mu        sync.RWMutex
	endpoints map[string]feed.WebhookEndpoint
}

// NewWebhookHealthFeed builds the webhook-health facade.
func NewWebhookHealthFeed(opts Options) *WebhookHealthFeed {
	f := &WebhookHealthFeed{
		feedBase:  newFeedBase(opts, "payments/webhooks", []string{"webhook_status"}),
		endpoints: make(map[string]feed.WebhookEndpoint),
	}
	f.disp.Register("webhook_status", f.onWebhookStatus)
	return f
}

func (f *WebhookHealthFeed) onWebhookStatus(data json.RawMessage, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := feed.ApplyWebhookStatus(f.endpoints, data)
	if err != nil {
		f.logger.Error("failed to apply webhook status", "error", err)
		return
	}
	f.endpoints = next
}

// Endpoints returns a copy of the health records keyed by endpoint URL.
func (f *WebhookHealthFeed) Endpoints() map[string]feed.WebhookEndpoint {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]feed.WebhookEndpoint, len(f.endpoints))
	for k, v := range f.endpoints {
		out[k] = v
	}
	return out
}

// Endpoint returns one health record and whether it exists.
func (f *WebhookHealthFeed) Endpoint(url string) (feed.WebhookEndpoint, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.endpoints[url]
	return rec, ok
}

// SetEndpoints seeds the health map from a prior REST fetch.
func (f *WebhookHealthFeed) SetEndpoints(m map[string]feed.WebhookEndpoint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.endpoints = make(map[string]feed.WebhookEndpoint, len(m))
	for k, v := range m {
		f.endpoints[k] = v
	}
}
