package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorlink/realtime/internal/subscription"
)

// JournalConfig controls batching behavior.
type JournalConfig struct {
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultJournalConfig returns sensible batching defaults.
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		BatchSize:     500,
		FlushInterval: 1 * time.Second,
	}
}

// JournalMetrics tracks journal activity.
type JournalMetrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
}

// eventRow is the insert shape for the transaction_events table.
type eventRow struct {
	TransactionID string
	TenantID      string
	Action        string
	Status        string
	Amount        float64
	Currency      string
	RecordedAt    int64 // microseconds
}

// TransactionJournal consumes transaction events and writes them to Postgres
// in batches.
type TransactionJournal struct {
	cfg    JournalConfig
	logger *slog.Logger

	// Input from the transaction feed
	input <-chan subscription.TransactionEvent

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []eventRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics JournalMetrics
}

// NewTransactionJournal creates a journal reading from input.
func NewTransactionJournal(
	cfg JournalConfig,
	input <-chan subscription.TransactionEvent,
	db *pgxpool.Pool,
	logger *slog.Logger,
) *TransactionJournal {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionJournal{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]eventRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming events and writing to the database.
func (j *TransactionJournal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.flushTicker = time.NewTicker(j.cfg.FlushInterval)

	j.wg.Add(1)
	go j.consumeLoop()

	j.wg.Add(1)
	go j.flushLoop()

	j.logger.Info("transaction journal started",
		"batch_size", j.cfg.BatchSize,
		"flush_interval", j.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the journal, flushing any buffered rows.
func (j *TransactionJournal) Stop(ctx context.Context) error {
	j.logger.Info("stopping transaction journal")

	if j.cancel != nil {
		j.cancel()
	}
	if j.flushTicker != nil {
		j.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("transaction journal stopped")
	case <-ctx.Done():
		j.logger.Warn("transaction journal stop timed out")
	}

	j.flush()
	return nil
}

// Stats returns current metrics.
func (j *TransactionJournal) Stats() JournalMetrics {
	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	return j.metrics
}

// consumeLoop reads events and accumulates batches.
func (j *TransactionJournal) consumeLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case ev, ok := <-j.input:
			if !ok {
				return
			}
			j.handleEvent(ev)
		}
	}
}

// flushLoop periodically flushes the batch.
func (j *TransactionJournal) flushLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-j.flushTicker.C:
			j.flush()
		}
	}
}

// handleEvent transforms and adds an event to the batch.
func (j *TransactionJournal) handleEvent(ev subscription.TransactionEvent) {
	row := j.transform(ev)

	j.batchMu.Lock()
	j.batch = append(j.batch, row)
	shouldFlush := len(j.batch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if shouldFlush {
		j.flush()
	}
}

// transform converts a TransactionEvent to an eventRow.
func (j *TransactionJournal) transform(ev subscription.TransactionEvent) eventRow {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return eventRow{
		TransactionID: ev.Transaction.ID,
		TenantID:      ev.Transaction.TenantID,
		Action:        ev.Action,
		Status:        ev.Transaction.Status,
		Amount:        ev.Transaction.Amount,
		Currency:      ev.Transaction.Currency,
		RecordedAt:    at.UnixMicro(),
	}
}

// flush writes the current batch to the database.
func (j *TransactionJournal) flush() {
	j.batchMu.Lock()
	if len(j.batch) == 0 {
		j.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := j.batch
	j.batch = make([]eventRow, 0, j.cfg.BatchSize)
	j.batchMu.Unlock()

	start := time.Now()

	if err := j.batchInsert(batch); err != nil {
		j.logger.Error("batch insert failed", "error", err, "count", len(batch))
		j.batchMu.Lock()
		j.metrics.Errors++
		j.batchMu.Unlock()
		return
	}

	j.batchMu.Lock()
	j.metrics.Inserts += int64(len(batch))
	j.metrics.Flushes++
	j.batchMu.Unlock()

	j.logger.Debug("flushed transaction events",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch.
func (j *TransactionJournal) batchInsert(rows []eventRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO transaction_events (transaction_id, tenant_id, action, status, amount, currency, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, r.TransactionID, r.TenantID, r.Action, r.Status, r.Amount, r.Currency, r.RecordedAt)
	}

	results := j.db.SendBatch(j.ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
