package feed

import (
	"encoding/json"
	"fmt"
)

// WebhookEndpoint is the health record for one delivery endpoint.
type WebhookEndpoint struct {
	EndpointURL         string  `json:"endpoint_url"`
	Status              string  `json:"status"` // healthy, degraded, failing
	SuccessRate         float64 `json:"success_rate"`
	LastDeliveryAt      string  `json:"last_delivery_at,omitempty"`
	LastStatusCode      int     `json:"last_status_code,omitempty"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	AverageLatencyMs    float64 `json:"average_latency_ms,omitempty"`
}

// ApplyWebhookStatus upserts a health record keyed by endpoint_url. Updates
// shallow-merge into the existing record: the payload is unmarshaled over a
// copy, so fields absent from the update are retained. The input map is
// never mutated.
func ApplyWebhookStatus(prev map[string]WebhookEndpoint, data []byte) (map[string]WebhookEndpoint, error) {
	var probe struct {
		EndpointURL string `json:"endpoint_url"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return prev, fmt.Errorf("parse webhook status: %w", err)
	}
	if probe.EndpointURL == "" {
		return prev, fmt.Errorf("webhook status without endpoint_url")
	}

	record := prev[probe.EndpointURL] // zero value for an unseen endpoint
	if err := json.Unmarshal(data, &record); err != nil {
		return prev, fmt.Errorf("parse webhook status: %w", err)
	}

	next := make(map[string]WebhookEndpoint, len(prev)+1)
	for k, v := range prev {
		next[k] = v
	}
	next[probe.EndpointURL] = record
	return next, nil
}
