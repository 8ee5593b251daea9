package types

import "time"

// SearchResult is a ranked match from the file index
type SearchResult struct {
	// Full absolute path to the file
	Path string `json:"path"`
	// Path relative to the home root, prefixed with "~" (for display)
	DisplayPath string `json:"display_path"`
	// Match score, higher is better; 0 for blank queries
	Score int `json:"score"`
}

// IndexStats contains file index statistics
type IndexStats struct {
	Paths         int       `json:"paths"`
	LastRefreshed time.Time `json:"last_refreshed"`
	Empty         bool      `json:"empty"`
}
