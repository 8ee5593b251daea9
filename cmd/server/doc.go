// Package main is the entry point for the Folio session service.
//
// This service is the brain of the Folio desktop shell: it owns the tab
// session, keeps a pool of pre-provisioned surfaces warm, and maintains
// the file index behind the library search.
//
// Architecture:
//
//	Host shell (webview window) ⇄ Go session service
//	  - WebSocket host plane: surface commands out, window events in
//	  - WebSocket event plane: tab state broadcasts to UI clients
//	  - REST API: tab lifecycle, navigation, search
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8090
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
