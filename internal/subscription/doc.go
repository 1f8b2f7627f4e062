// Package subscription exposes one facade per dashboard feature. A facade
// binds a connection manager, a message dispatcher, and the feature's reducer
// state behind a small surface: Connect/Disconnect, IsConnected/Err, a state
// snapshot accessor, and feature-specific mutators.
//
// Each facade owns an independent connection; no socket or state is shared
// across features. Reducer state is guarded by the facade's mutex because
// updates arrive on the connection's read goroutine while snapshots are read
// from the caller's.
package subscription
