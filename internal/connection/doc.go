// Package connection implements the WebSocket connection manager.
//
// The manager owns a single socket's full lifecycle:
//   - Token-gated dialing (the auth token is embedded as a ?token= query
//     parameter; no token means no connection attempt)
//   - State machine: disconnected, connecting, connected, reconnecting,
//     closed_permanent
//   - Exponential backoff reconnection after abnormal closures
//   - Normal-closure suppression (an intentional disconnect never retries)
//
// Each dashboard feature owns an independent Manager; no socket state is
// shared across features.
package connection
