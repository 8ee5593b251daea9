// Package search ranks file index paths against user queries with
// smart-case, diacritic-insensitive fuzzy matching.
package search
