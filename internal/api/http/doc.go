// Package http exposes the REST surface of the session service: tab
// lifecycle, window events, file search, and operational stats.
package http
