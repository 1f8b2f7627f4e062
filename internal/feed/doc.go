// Package feed implements the per-feature state reducers.
//
// Each reducer is a pure function: it receives the previous state snapshot
// and a raw update payload, and returns the next snapshot. Nothing here
// touches sockets or timers, which keeps merge semantics testable in
// isolation from connection wiring.
//
// Collection invariants:
//   - Ordered feeds are newest-first, capacity-bounded, and deduplicated by
//     id (an update for a known id replaces the entry in place).
//   - Keyed records (webhook health) shallow-merge: fields absent from an
//     update retain their prior values.
//   - Fraud alerts are retained only while active or under investigation;
//     disputes are retained regardless of status. The asymmetry is a product
//     decision and is preserved deliberately.
package feed
