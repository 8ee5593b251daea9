package types

// SurfaceKind distinguishes the two content views a surface can host
type SurfaceKind string

const (
	KindHome     SurfaceKind = "home"
	KindDocument SurfaceKind = "document"
)

// Visibility represents whether a surface is currently shown
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
)

// Surface represents one tab: an independently rendered content view
type Surface struct {
	ID           string      `json:"id"`
	Kind         SurfaceKind `json:"kind"`
	DocumentPath *string     `json:"document_path,omitempty"`
	Title        string      `json:"title"`
	Visibility   Visibility  `json:"visibility"`
}

// SessionState is the ordered set of open surfaces plus the active one.
// If Surfaces is non-empty, ActiveID identifies exactly one member and
// that member is the only visible surface.
type SessionState struct {
	Surfaces []Surface `json:"surfaces"`
	ActiveID string    `json:"active_id"`
}

// ActiveIndex returns the position of the active surface, or -1
func (s SessionState) ActiveIndex() int {
	for i, surf := range s.Surfaces {
		if surf.ID == s.ActiveID {
			return i
		}
	}
	return -1
}

// WindowBounds is the host window's logical inner size
type WindowBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// SurfaceBounds is a surface's position and size inside the host window
type SurfaceBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SessionStats contains session store statistics
type SessionStats struct {
	TotalSurfaces int    `json:"total_surfaces"`
	ActiveID      string `json:"active_id,omitempty"`
	PooledClaims  int64  `json:"pooled_claims"`
	FreshCreates  int64  `json:"fresh_creates"`
}

// PoolStats contains surface pool statistics
type PoolStats struct {
	Idle       int `json:"idle"`
	TargetSize int `json:"target_size"`
}
