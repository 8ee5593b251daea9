package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/host"
	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/shared/id"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Notifier broadcasts session state changes to observers (the UI).
// Implementations must not block.
type Notifier interface {
	NotifyState(state types.SessionState)
}

// Pool supplies pre-provisioned idle surfaces to hide creation latency.
type Pool interface {
	// Claim pops an idle surface id; ok is false when the pool is empty.
	Claim() (string, bool)
	// Replenish asynchronously refills the pool after a claim.
	Replenish()
}

// Store owns the ordered list of open tab surfaces and which one is
// active. All operations serialize through one mutex over the session
// state; binding and notifier calls are non-blocking, so the critical
// sections stay short.
type Store struct {
	mu    sync.Mutex
	state types.SessionState

	binding  host.Binding
	notifier Notifier
	pool     Pool
	logger   *logging.Logger
	metrics  *monitoring.Metrics

	chromeOffset float64
	initialTitle string

	pooledClaims int64
	freshCreates int64
}

// NewStore creates a session store. chromeOffset is the tab bar height
// subtracted from the window when sizing surfaces.
func NewStore(binding host.Binding, notifier Notifier, logger *logging.Logger, chromeOffset float64, initialTitle string) *Store {
	return &Store{
		binding:      binding,
		notifier:     notifier,
		logger:       logger,
		chromeOffset: chromeOffset,
		initialTitle: initialTitle,
	}
}

// WithPool wires a surface pool into tab creation.
func (s *Store) WithPool(pool Pool) *Store {
	s.pool = pool
	return s
}

// WithMetrics adds metrics tracking to the store.
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// contentBounds converts window geometry to the surface area below the
// tab bar, in logical coordinates.
func (s *Store) contentBounds(win types.WindowBounds) types.SurfaceBounds {
	scale := win.Scale
	if scale == 0 {
		scale = 1
	}
	return types.SurfaceBounds{
		X:      0,
		Y:      s.chromeOffset,
		Width:  win.Width / scale,
		Height: win.Height/scale - s.chromeOffset,
	}
}

// Create opens a new tab surface and makes it active.
//
// The host window lookup and every binding call happen before the
// in-memory commit, so a failure leaves the session state untouched.
func (s *Store) Create(kind types.SurfaceKind, documentPath *string, title string) (string, error) {
	win, err := s.binding.WindowBounds()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHostUnavailable, err)
	}
	bounds := s.contentBounds(win)

	docPath := ""
	if documentPath != nil {
		docPath = *documentPath
	}

	s.mu.Lock()

	surfaceID, pooled := s.acquireSurface(kind, docPath, bounds)
	if surfaceID == "" {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: surface creation failed", ErrHostUnavailable)
	}

	// Hide the currently visible surface. Failures here are logged and
	// ignored, matching the binding's best-effort visibility contract.
	if idx := s.state.ActiveIndex(); idx >= 0 {
		if err := s.binding.Hide(s.state.ActiveID); err != nil {
			s.logger.Warn("failed to hide active surface", zap.String("id", s.state.ActiveID), zap.Error(err))
		}
		s.state.Surfaces[idx].Visibility = types.Hidden
	}

	if pooled {
		if err := s.binding.Show(surfaceID); err != nil {
			s.logger.Warn("failed to show pooled surface", zap.String("id", surfaceID), zap.Error(err))
		}
	}
	if err := s.binding.Focus(surfaceID); err != nil {
		s.logger.Warn("failed to focus surface", zap.String("id", surfaceID), zap.Error(err))
	}

	surface := types.Surface{
		ID:         surfaceID,
		Kind:       kind,
		Title:      title,
		Visibility: types.Visible,
	}
	if documentPath != nil {
		p := *documentPath
		surface.DocumentPath = &p
	}
	s.state.Surfaces = append(s.state.Surfaces, surface)
	s.state.ActiveID = surfaceID

	if pooled {
		s.pooledClaims++
	} else {
		s.freshCreates++
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncTabsCreated()
		s.metrics.SetTabsActive(len(snapshot.Surfaces))
	}
	if pooled && s.pool != nil {
		s.pool.Replenish()
	}
	s.notify(snapshot)

	return surfaceID, nil
}

// acquireSurface obtains a surface for a new tab: a re-skinned idle
// pooled surface when one is available, otherwise a freshly constructed
// one. Returns "" when construction fails. Caller holds the lock.
func (s *Store) acquireSurface(kind types.SurfaceKind, docPath string, bounds types.SurfaceBounds) (surfaceID string, pooled bool) {
	if s.pool != nil {
		if pooledID, ok := s.pool.Claim(); ok {
			if err := s.reskin(pooledID, kind, docPath, bounds); err == nil {
				return pooledID, true
			}
			// The claimed surface is in an unknown state; drop it and
			// fall through to fresh construction.
			s.logger.Warn("failed to re-skin pooled surface", zap.String("id", pooledID))
			if err := s.binding.Destroy(pooledID); err != nil {
				s.logger.Warn("failed to destroy pooled surface", zap.String("id", pooledID), zap.Error(err))
			}
		}
	}

	freshID := id.NewSurfaceID().String()
	if err := s.binding.CreateSurface(freshID, kind, docPath, bounds); err != nil {
		s.logger.Error("failed to create surface", zap.String("id", freshID), zap.Error(err))
		return "", false
	}
	return freshID, false
}

// reskin re-targets an idle pooled surface for its new tab.
func (s *Store) reskin(surfaceID string, kind types.SurfaceKind, docPath string, bounds types.SurfaceBounds) error {
	if err := s.binding.Navigate(surfaceID, kind, docPath); err != nil {
		return err
	}
	return s.binding.Resize(surfaceID, bounds)
}

// Initialize opens the initial Home tab if the session is empty.
// Safe to call repeatedly; only the first successful call creates one.
func (s *Store) Initialize() error {
	s.mu.Lock()
	empty := len(s.state.Surfaces) == 0
	s.mu.Unlock()

	if !empty {
		return nil
	}
	_, err := s.Create(types.KindHome, nil, s.initialTitle)
	return err
}

// Close removes a tab surface. Closing the sole remaining tab is a
// no-op; the host shell reinterprets that as closing the window.
func (s *Store) Close(surfaceID string) error {
	s.mu.Lock()

	if len(s.state.Surfaces) <= 1 {
		s.mu.Unlock()
		return nil
	}

	idx := s.indexOfLocked(surfaceID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	wasActive := s.state.ActiveID == surfaceID
	s.state.Surfaces = append(s.state.Surfaces[:idx], s.state.Surfaces[idx+1:]...)

	if err := s.binding.Hide(surfaceID); err != nil {
		s.logger.Warn("failed to hide closed surface", zap.String("id", surfaceID), zap.Error(err))
	}
	if err := s.binding.Destroy(surfaceID); err != nil {
		s.logger.Warn("failed to destroy closed surface", zap.String("id", surfaceID), zap.Error(err))
	}

	if wasActive {
		newIdx := idx
		if newIdx >= len(s.state.Surfaces) {
			newIdx = len(s.state.Surfaces) - 1
		}
		target := &s.state.Surfaces[newIdx]
		target.Visibility = types.Visible
		s.state.ActiveID = target.ID
		if err := s.binding.Show(target.ID); err != nil {
			s.logger.Warn("failed to show surface", zap.String("id", target.ID), zap.Error(err))
		}
		if err := s.binding.Focus(target.ID); err != nil {
			s.logger.Warn("failed to focus surface", zap.String("id", target.ID), zap.Error(err))
		}
	}

	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncTabsClosed()
		s.metrics.SetTabsActive(len(snapshot.Surfaces))
	}
	s.notify(snapshot)
	return nil
}

// CloseActive closes the currently active tab.
func (s *Store) CloseActive() error {
	s.mu.Lock()
	active := s.state.ActiveID
	s.mu.Unlock()

	if active == "" {
		return nil
	}
	return s.Close(active)
}

// CloseActiveOrWindow closes the active tab, or asks the host to close
// the whole window when only one tab remains.
func (s *Store) CloseActiveOrWindow() error {
	s.mu.Lock()
	count := len(s.state.Surfaces)
	active := s.state.ActiveID
	s.mu.Unlock()

	if count <= 1 {
		return s.binding.CloseWindow()
	}
	if active == "" {
		return nil
	}
	return s.Close(active)
}

// Switch makes the given tab active and visible.
func (s *Store) Switch(surfaceID string) error {
	s.mu.Lock()
	snapshot, err := s.switchLocked(surfaceID)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncTabSwitches()
	}
	s.notify(snapshot)
	return nil
}

// switchLocked performs the switch; caller holds the lock.
func (s *Store) switchLocked(surfaceID string) (types.SessionState, error) {
	idx := s.indexOfLocked(surfaceID)
	if idx < 0 {
		return types.SessionState{}, fmt.Errorf("%w: %s", ErrNotFound, surfaceID)
	}

	if cur := s.state.ActiveIndex(); cur >= 0 && s.state.ActiveID != surfaceID {
		if err := s.binding.Hide(s.state.ActiveID); err != nil {
			s.logger.Warn("failed to hide active surface", zap.String("id", s.state.ActiveID), zap.Error(err))
		}
		s.state.Surfaces[cur].Visibility = types.Hidden
	}

	s.state.Surfaces[idx].Visibility = types.Visible
	s.state.ActiveID = surfaceID
	if err := s.binding.Show(surfaceID); err != nil {
		s.logger.Warn("failed to show surface", zap.String("id", surfaceID), zap.Error(err))
	}
	if err := s.binding.Focus(surfaceID); err != nil {
		s.logger.Warn("failed to focus surface", zap.String("id", surfaceID), zap.Error(err))
	}

	return s.snapshotLocked(), nil
}

// Next cycles to the tab after the active one. No-op with one tab.
func (s *Store) Next() error {
	return s.cycle(1)
}

// Prev cycles to the tab before the active one. No-op with one tab.
func (s *Store) Prev() error {
	return s.cycle(-1)
}

func (s *Store) cycle(step int) error {
	s.mu.Lock()
	n := len(s.state.Surfaces)
	if n <= 1 {
		s.mu.Unlock()
		return nil
	}
	cur := s.state.ActiveIndex()
	if cur < 0 {
		cur = 0
	}
	target := s.state.Surfaces[(cur+step+n)%n].ID
	snapshot, err := s.switchLocked(target)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncTabSwitches()
	}
	s.notify(snapshot)
	return nil
}

// SwitchByIndex makes the tab at the given position active.
func (s *Store) SwitchByIndex(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.state.Surfaces) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, index)
	}
	snapshot, err := s.switchLocked(s.state.Surfaces[index].ID)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncTabSwitches()
	}
	s.notify(snapshot)
	return nil
}

// Rename updates the title of the surface the command originated from.
// Unknown ids are a no-op, not an error: the surface may have been
// closed while the rename was in flight.
func (s *Store) Rename(surfaceID, title string) {
	s.mu.Lock()
	idx := s.indexOfLocked(surfaceID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.state.Surfaces[idx].Title = title
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

// ResizeAll repositions every open surface after a window resize.
func (s *Store) ResizeAll(win types.WindowBounds) {
	bounds := s.contentBounds(win)

	s.mu.Lock()
	ids := make([]string, len(s.state.Surfaces))
	for i, surf := range s.state.Surfaces {
		ids[i] = surf.ID
	}
	s.mu.Unlock()

	for _, surfaceID := range ids {
		if err := s.binding.Resize(surfaceID, bounds); err != nil {
			s.logger.Warn("failed to resize surface", zap.String("id", surfaceID), zap.Error(err))
		}
	}
}

// State returns a snapshot copy of the session state.
func (s *Store) State() types.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stats returns session store statistics.
func (s *Store) Stats() types.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.SessionStats{
		TotalSurfaces: len(s.state.Surfaces),
		ActiveID:      s.state.ActiveID,
		PooledClaims:  s.pooledClaims,
		FreshCreates:  s.freshCreates,
	}
}

// indexOfLocked returns the position of a surface id, or -1.
func (s *Store) indexOfLocked(surfaceID string) int {
	for i, surf := range s.state.Surfaces {
		if surf.ID == surfaceID {
			return i
		}
	}
	return -1
}

// snapshotLocked deep-copies the state; callers hand the copy to
// observers without re-entering the lock.
func (s *Store) snapshotLocked() types.SessionState {
	surfaces := make([]types.Surface, len(s.state.Surfaces))
	for i, surf := range s.state.Surfaces {
		surfaces[i] = surf
		if surf.DocumentPath != nil {
			p := *surf.DocumentPath
			surfaces[i].DocumentPath = &p
		}
	}
	return types.SessionState{Surfaces: surfaces, ActiveID: s.state.ActiveID}
}

func (s *Store) notify(snapshot types.SessionState) {
	if s.notifier != nil {
		s.notifier.NotifyState(snapshot)
	}
}
