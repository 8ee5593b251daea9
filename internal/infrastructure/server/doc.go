// Package server wires configuration, logging, metrics, the WebSocket
// hub, host binding, session store, surface pool, and file index into
// a runnable HTTP server.
package server
