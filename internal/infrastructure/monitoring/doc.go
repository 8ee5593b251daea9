// Package monitoring provides Prometheus metrics for the Folio backend.
//
// Metrics cover the HTTP command surface, the tab session, the surface
// pool, the file index, fuzzy searches, and WebSocket connections.
// Components receive the collector through WithMetrics hooks and record
// via the typed helpers; /metrics exposes the standard Prometheus
// exposition format.
package monitoring
