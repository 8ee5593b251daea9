// Package paths resolves the user's document root and display paths.
//
// The file index enumerates documents under the home root, and search
// results are displayed home-relative with a "~" prefix. Both sides of
// that contract live here so they cannot drift apart.
//
// # Usage
//
//	home, err := paths.HomeRoot()
//	display := paths.Display("/home/u/Documents/a.md", home) // ~/Documents/a.md
package paths
