// Package index maintains the in-memory file index behind search: a
// parallel filesystem enumerator and a read-optimized path store that
// refreshes in the background and swaps contents atomically.
package index
