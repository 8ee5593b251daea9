package host

import (
	"sync"

	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Sender delivers a surface command to the connected host shell.
// Implemented by the WebSocket hub's host plane.
type Sender interface {
	SendToHost(msgType string, payload interface{}) error
}

// SurfaceCommand is the payload for surface ops sent to the host shell.
type SurfaceCommand struct {
	ID           string               `json:"id,omitempty"`
	Kind         types.SurfaceKind    `json:"kind,omitempty"`
	DocumentPath string               `json:"document_path,omitempty"`
	Bounds       *types.SurfaceBounds `json:"bounds,omitempty"`
}

// Remote implements Binding by forwarding surface commands to the host
// shell over the WebSocket host plane. Window geometry is pushed by the
// shell through window events and cached here; until the first report
// the window is unresolved.
type Remote struct {
	sender Sender

	mu     sync.RWMutex
	bounds *types.WindowBounds
}

// NewRemote creates a remote binding on the given sender.
func NewRemote(sender Sender) *Remote {
	return &Remote{sender: sender}
}

// UpdateWindowBounds caches the geometry reported by the host shell.
func (r *Remote) UpdateWindowBounds(b types.WindowBounds) {
	r.mu.Lock()
	r.bounds = &b
	r.mu.Unlock()
}

// WindowBounds returns the last reported window geometry.
func (r *Remote) WindowBounds() (types.WindowBounds, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.bounds == nil {
		return types.WindowBounds{}, ErrWindowUnresolved
	}
	return *r.bounds, nil
}

// CreateSurface constructs a surface at the given bounds.
func (r *Remote) CreateSurface(id string, kind types.SurfaceKind, documentPath string, bounds types.SurfaceBounds) error {
	b := bounds
	return r.sender.SendToHost("surface_create", SurfaceCommand{
		ID:           id,
		Kind:         kind,
		DocumentPath: documentPath,
		Bounds:       &b,
	})
}

// Navigate re-targets an existing surface to new content.
func (r *Remote) Navigate(id string, kind types.SurfaceKind, documentPath string) error {
	return r.sender.SendToHost("surface_navigate", SurfaceCommand{
		ID:           id,
		Kind:         kind,
		DocumentPath: documentPath,
	})
}

// Show makes a surface visible.
func (r *Remote) Show(id string) error {
	return r.sender.SendToHost("surface_show", SurfaceCommand{ID: id})
}

// Hide conceals a surface.
func (r *Remote) Hide(id string) error {
	return r.sender.SendToHost("surface_hide", SurfaceCommand{ID: id})
}

// Focus gives a surface input focus.
func (r *Remote) Focus(id string) error {
	return r.sender.SendToHost("surface_focus", SurfaceCommand{ID: id})
}

// Resize repositions and resizes a surface.
func (r *Remote) Resize(id string, bounds types.SurfaceBounds) error {
	b := bounds
	return r.sender.SendToHost("surface_resize", SurfaceCommand{ID: id, Bounds: &b})
}

// Destroy tears down a surface.
func (r *Remote) Destroy(id string) error {
	return r.sender.SendToHost("surface_destroy", SurfaceCommand{ID: id})
}

// CloseWindow asks the host to close the whole window.
func (r *Remote) CloseWindow() error {
	return r.sender.SendToHost("window_close", SurfaceCommand{})
}
