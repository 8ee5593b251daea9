// Package types provides shared data structures for the Folio backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Surface: One tab (home or document content view)
//   - SessionState: Ordered surfaces plus the active one
//   - SearchResult: Ranked file index match
//   - WindowBounds, SurfaceBounds: Host window geometry
//
// State Management:
//   - SurfaceKind: Content view kind (home, document)
//   - Visibility: Surface visibility (visible, hidden)
//   - SessionStats, PoolStats, IndexStats: Component statistics
//
// Example Usage:
//
//	surface := types.Surface{
//	    ID:         string(id.NewSurfaceID()),
//	    Kind:       types.KindHome,
//	    Title:      "Library",
//	    Visibility: types.Visible,
//	}
package types
