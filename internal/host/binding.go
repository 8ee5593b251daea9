package host

import (
	"errors"

	"github.com/foliohq/folio/backend/internal/shared/types"
)

// ErrWindowUnresolved reports that the host window cannot be resolved,
// either because no host shell is connected or because it has not yet
// reported its geometry.
var ErrWindowUnresolved = errors.New("host window unresolved")

// Binding drives surfaces inside the host window. The host shell owns
// rendering; the backend only issues lifecycle and geometry commands
// and holds a non-owning handle keyed by surface id.
//
// Implementations must be non-blocking: session and pool critical
// sections call into the binding directly.
type Binding interface {
	// WindowBounds resolves the host window geometry. Returns
	// ErrWindowUnresolved when the window is not available; callers
	// treat that as HostUnavailable and perform no mutation.
	WindowBounds() (types.WindowBounds, error)

	// CreateSurface constructs a surface at the given bounds.
	CreateSurface(id string, kind types.SurfaceKind, documentPath string, bounds types.SurfaceBounds) error

	// Navigate re-targets an existing surface to new content.
	Navigate(id string, kind types.SurfaceKind, documentPath string) error

	Show(id string) error
	Hide(id string) error
	Focus(id string) error
	Resize(id string, bounds types.SurfaceBounds) error
	Destroy(id string) error

	// CloseWindow asks the host to close the whole window. Used when
	// closing the sole remaining tab.
	CloseWindow() error
}
