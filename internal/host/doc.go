// Package host is the seam between the backend and the host shell.
//
// The shell (window, menus, webview rendering) lives outside this
// process. Binding is the narrow interface the session store and the
// surface pool drive surfaces through; Remote forwards those commands
// over the WebSocket host plane and caches the window geometry the
// shell reports through window events.
package host
