package feed

import (
	"encoding/json"
	"fmt"
)

// MetricsSnapshot holds the payment dashboard headline numbers.
type MetricsSnapshot struct {
	TotalRevenue            float64 `json:"total_revenue"`
	SuccessfulTransactions  int64   `json:"successful_transactions"`
	FailedTransactions      int64   `json:"failed_transactions"`
	RefundedTransactions    int64   `json:"refunded_transactions"`
	PendingTransactions     int64   `json:"pending_transactions"`
	AverageTransactionValue float64 `json:"average_transaction_value"`
	SuccessRate             float64 `json:"success_rate"`
}

// TrendPoint is one bucket of the revenue trend series.
type TrendPoint struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int64   `json:"transactions"`
}

// TrendData holds the rolling trend series shown alongside the metrics.
type TrendData struct {
	Daily  []TrendPoint `json:"daily"`
	Weekly []TrendPoint `json:"weekly"`
}

// MetricsState is the full metrics-and-trends snapshot.
type MetricsState struct {
	Metrics MetricsSnapshot
	Trend   TrendData
}

// metricsUpdateWire is the data payload of a metrics_update envelope. Both
// sections are optional; a partial update touches only the fields it carries.
type metricsUpdateWire struct {
	Metrics   json.RawMessage `json:"metrics"`
	TrendData json.RawMessage `json:"trend_data"`
}

// ApplyMetricsUpdate shallow-merges a metrics_update payload into the prior
// snapshot. Fields absent from the update retain their prior values: the
// update is unmarshaled into a copy of the previous state, so only the keys
// present on the wire are overwritten.
func ApplyMetricsUpdate(prev MetricsState, data []byte) (MetricsState, error) {
	var upd metricsUpdateWire
	if err := json.Unmarshal(data, &upd); err != nil {
		return prev, fmt.Errorf("parse metrics update: %w", err)
	}

	next := prev
	if len(upd.Metrics) > 0 {
		if err := json.Unmarshal(upd.Metrics, &next.Metrics); err != nil {
			return prev, fmt.Errorf("parse metrics section: %w", err)
		}
	}
	if len(upd.TrendData) > 0 {
		if err := json.Unmarshal(upd.TrendData, &next.Trend); err != nil {
			return prev, fmt.Errorf("parse trend section: %w", err)
		}
	}
	return next, nil
}
