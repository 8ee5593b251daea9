package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/backend/internal/shared/types"
)

type recordingSender struct {
	types    []string
	payloads []SurfaceCommand
	err      error
}

func (s *recordingSender) SendToHost(msgType string, payload interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.types = append(s.types, msgType)
	s.payloads = append(s.payloads, payload.(SurfaceCommand))
	return nil
}

func TestWindowBoundsUnresolvedUntilReported(t *testing.T) {
	r := NewRemote(&recordingSender{})

	_, err := r.WindowBounds()
	assert.ErrorIs(t, err, ErrWindowUnresolved)

	r.UpdateWindowBounds(types.WindowBounds{Width: 1024, Height: 768, Scale: 1})

	b, err := r.WindowBounds()
	require.NoError(t, err)
	assert.Equal(t, float64(1024), b.Width)
	assert.Equal(t, float64(768), b.Height)
}

func TestSurfaceCommands(t *testing.T) {
	sender := &recordingSender{}
	r := NewRemote(sender)

	bounds := types.SurfaceBounds{X: 0, Y: 38, Width: 800, Height: 562}
	require.NoError(t, r.CreateSurface("tab_1", types.KindDocument, "/home/u/a.md", bounds))
	require.NoError(t, r.Navigate("tab_1", types.KindHome, ""))
	require.NoError(t, r.Show("tab_1"))
	require.NoError(t, r.Hide("tab_1"))
	require.NoError(t, r.Focus("tab_1"))
	require.NoError(t, r.Resize("tab_1", bounds))
	require.NoError(t, r.Destroy("tab_1"))
	require.NoError(t, r.CloseWindow())

	assert.Equal(t, []string{
		"surface_create", "surface_navigate", "surface_show", "surface_hide",
		"surface_focus", "surface_resize", "surface_destroy", "window_close",
	}, sender.types)

	create := sender.payloads[0]
	assert.Equal(t, "tab_1", create.ID)
	assert.Equal(t, types.KindDocument, create.Kind)
	assert.Equal(t, "/home/u/a.md", create.DocumentPath)
	require.NotNil(t, create.Bounds)
	assert.Equal(t, float64(38), create.Bounds.Y)
}

func TestSendFailurePropagates(t *testing.T) {
	sender := &recordingSender{err: errors.New("no host connected")}
	r := NewRemote(sender)

	err := r.Show("tab_1")
	assert.Error(t, err)
}
