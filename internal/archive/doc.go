// Package archive implements the optional Postgres transaction journal.
//
// The journal consumes applied transaction-feed events and batch-inserts them
// into the transaction_events table. Inserts are append-only; the live feed
// state never depends on the journal.
package archive
