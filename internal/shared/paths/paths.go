package paths

import (
	"os"
	"strings"
)

// HomeRoot resolves the user's home directory. The HOME environment
// variable wins so the document root can be redirected for testing;
// otherwise the OS-reported home directory is used.
func HomeRoot() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	return os.UserHomeDir()
}

// StripHome removes the home root prefix from path. The second return
// reports whether the prefix matched; on a miss the path is returned
// unchanged.
func StripHome(path, home string) (string, bool) {
	if home == "" || !strings.HasPrefix(path, home) {
		return path, false
	}
	return path[len(home):], true
}

// Display renders path for the UI: home-relative paths get a "~"
// prefix, everything else is returned as-is.
func Display(path, home string) string {
	if rel, ok := StripHome(path, home); ok {
		return "~" + rel
	}
	return path
}
