// Package ws manages WebSocket connections: state broadcasts to UI
// clients and the bidirectional host shell channel that carries surface
// commands out and window events in.
package ws
