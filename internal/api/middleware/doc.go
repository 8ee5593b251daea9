// Package middleware provides gin middleware: CORS, per-IP rate
// limiting, and request id tagging.
package middleware
