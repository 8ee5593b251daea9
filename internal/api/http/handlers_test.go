package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/backend/internal/api/ws"
	"github.com/foliohq/folio/backend/internal/domain/index"
	"github.com/foliohq/folio/backend/internal/domain/search"
	"github.com/foliohq/folio/backend/internal/domain/session"
	"github.com/foliohq/folio/backend/internal/infrastructure/config"
	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/tasks"
	"github.com/foliohq/folio/backend/internal/shared/id"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

type fakeBinding struct {
	mu          sync.Mutex
	unavailable bool
	closedWin   int
}

func (b *fakeBinding) WindowBounds() (types.WindowBounds, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unavailable {
		return types.WindowBounds{}, errors.New("no window")
	}
	return types.WindowBounds{Width: 1024, Height: 768, Scale: 1}, nil
}

func (b *fakeBinding) CreateSurface(string, types.SurfaceKind, string, types.SurfaceBounds) error {
	return nil
}
func (b *fakeBinding) Navigate(string, types.SurfaceKind, string) error { return nil }
func (b *fakeBinding) Show(string) error                                { return nil }
func (b *fakeBinding) Hide(string) error                                { return nil }
func (b *fakeBinding) Focus(string) error                               { return nil }
func (b *fakeBinding) Resize(string, types.SurfaceBounds) error         { return nil }
func (b *fakeBinding) Destroy(string) error                             { return nil }

func (b *fakeBinding) CloseWindow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closedWin++
	return nil
}

type fakeEvents struct {
	mu      sync.Mutex
	resizes []types.WindowBounds
	focuses int
	closes  int
}

func (e *fakeEvents) WindowResized(bounds types.WindowBounds) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizes = append(e.resizes, bounds)
}

func (e *fakeEvents) WindowFocused() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focuses++
}

func (e *fakeEvents) WindowCloseRequested() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closes++
}

type staticEnumerator struct{ paths []string }

func (e *staticEnumerator) Enumerate(ctx context.Context) ([]string, error) {
	return e.paths, nil
}

type harness struct {
	router  *gin.Engine
	binding *fakeBinding
	store   *session.Store
	events  *fakeEvents
}

func newHarness(t *testing.T, indexPaths []string) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewNop()
	cfg := config.Default()
	binding := &fakeBinding{}
	spawner := tasks.NewSpawner(logger)
	hub := ws.NewHub(logger)
	events := &fakeEvents{}

	store := session.NewStore(binding, hub, logger, cfg.Session.ChromeOffset, cfg.Session.InitialTitle)

	fileIndex := index.New(&staticEnumerator{paths: indexPaths}, spawner, logger)
	fileIndex.Update(indexPaths)
	ranker := search.NewRanker("/home/u", cfg.Search.MaxResults)

	handlers := NewHandlers(store, nil, fileIndex, ranker, hub, events, nil, cfg)

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.POST("/tabs", handlers.CreateTab)
	router.GET("/tabs", handlers.ListTabs)
	router.POST("/tabs/:id/focus", handlers.FocusTab)
	router.POST("/tabs/:id/title", handlers.RenameTab)
	router.DELETE("/tabs/:id", handlers.CloseTab)
	router.POST("/session/next-tab", handlers.NextTab)
	router.POST("/session/prev-tab", handlers.PrevTab)
	router.POST("/session/switch-by-index", handlers.SwitchByIndex)
	router.POST("/session/close-active", handlers.CloseActive)
	router.POST("/window/resized", handlers.WindowResized)
	router.POST("/window/focused", handlers.WindowFocused)
	router.POST("/window/close-request", handlers.WindowCloseRequest)
	router.GET("/search/files", handlers.SearchFiles)
	router.POST("/search/refresh", handlers.RefreshIndex)
	router.GET("/search/stats", handlers.IndexStats)
	router.GET("/pool/stats", handlers.PoolStats)

	return &harness{router: router, binding: binding, store: store, events: events}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateTab(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["tab_id"])

	state := h.store.State()
	require.Len(t, state.Surfaces, 1)
	assert.Equal(t, "Library", state.Surfaces[0].Title)
}

func TestCreateTabDocumentDefaultsTitle(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/Documents/report.md"})
	require.Equal(t, http.StatusOK, rec.Code)

	state := h.store.State()
	require.Len(t, state.Surfaces, 1)
	assert.Equal(t, types.KindDocument, state.Surfaces[0].Kind)
	assert.Equal(t, "report.md", state.Surfaces[0].Title)
}

func TestCreateTabDocumentRequiresPath(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(t, "POST", "/tabs", gin.H{"kind": "document"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTabUnknownKind(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(t, "POST", "/tabs", gin.H{"kind": "popup"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTabHostUnavailable(t *testing.T) {
	h := newHarness(t, nil)
	h.binding.unavailable = true

	rec := h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, h.store.State().Surfaces)
}

func TestListTabs(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/a.md"})

	rec := h.do(t, "GET", "/tabs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["tabs"], 2)
	assert.NotEmpty(t, body["active_id"])
}

func TestFocusTabNotFound(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})

	rec := h.do(t, "POST", "/tabs/"+id.NewSurfaceID().String()+"/focus", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTabIDValidation(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})

	for _, path := range []string{
		"/tabs/tab_missing/focus",
		"/tabs/not-a-ulid/focus",
	} {
		rec := h.do(t, "POST", path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := h.do(t, "DELETE", "/tabs/garbage", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, "POST", "/tabs/garbage/title", gin.H{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFocusTab(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/a.md"})
	first := h.store.State().Surfaces[0].ID

	rec := h.do(t, "POST", "/tabs/"+first+"/focus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, h.store.State().ActiveID)
}

func TestRenameTab(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	id := h.store.State().Surfaces[0].ID

	rec := h.do(t, "POST", "/tabs/"+id+"/title", gin.H{"title": "Reading List"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reading List", h.store.State().Surfaces[0].Title)

	rec = h.do(t, "POST", "/tabs/"+id+"/title", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseTab(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/a.md"})
	first := h.store.State().Surfaces[0].ID

	rec := h.do(t, "DELETE", "/tabs/"+first, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, h.store.State().Surfaces, 1)
}

func TestNextPrevTab(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/a.md"})
	active := h.store.State().ActiveID

	require.Equal(t, http.StatusOK, h.do(t, "POST", "/session/next-tab", nil).Code)
	assert.NotEqual(t, active, h.store.State().ActiveID)

	require.Equal(t, http.StatusOK, h.do(t, "POST", "/session/prev-tab", nil).Code)
	assert.Equal(t, active, h.store.State().ActiveID)
}

func TestSwitchByIndexOutOfBounds(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})

	rec := h.do(t, "POST", "/session/switch-by-index", gin.H{"index": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, "POST", "/session/switch-by-index", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwitchByIndexZero(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})
	h.do(t, "POST", "/tabs", gin.H{"document_path": "/home/u/a.md"})
	first := h.store.State().Surfaces[0].ID

	rec := h.do(t, "POST", "/session/switch-by-index", gin.H{"index": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, h.store.State().ActiveID)
}

func TestCloseActiveLastTabClosesWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/tabs", gin.H{"kind": "home"})

	rec := h.do(t, "POST", "/session/close-active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.binding.closedWin)
}

func TestWindowEvents(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, "POST", "/window/resized", types.WindowBounds{Width: 1280, Height: 800, Scale: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.events.resizes, 1)
	assert.Equal(t, types.WindowBounds{Width: 1280, Height: 800, Scale: 2}, h.events.resizes[0])

	require.Equal(t, http.StatusOK, h.do(t, "POST", "/window/focused", nil).Code)
	assert.Equal(t, 1, h.events.focuses)

	require.Equal(t, http.StatusOK, h.do(t, "POST", "/window/close-request", nil).Code)
	assert.Equal(t, 1, h.events.closes)
}

func TestSearchFiles(t *testing.T) {
	h := newHarness(t, []string{
		"/home/u/Documents/a.pdf",
		"/home/u/Pictures/photo.png",
	})

	rec := h.do(t, "GET", "/search/files?q=doc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])

	results := body["results"].([]interface{})
	first := results[0].(map[string]interface{})
	assert.Equal(t, "~/Documents/a.pdf", first["display_path"])
}

func TestSearchFilesBlankQuery(t *testing.T) {
	h := newHarness(t, []string{"/home/u/a.md", "/home/u/b.md"})

	rec := h.do(t, "GET", "/search/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
}

func TestRefreshIndex(t *testing.T) {
	h := newHarness(t, []string{"/home/u/a.md"})
	rec := h.do(t, "POST", "/search/refresh", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestIndexStats(t *testing.T) {
	h := newHarness(t, []string{"/home/u/a.md"})

	rec := h.do(t, "GET", "/search/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["paths"])
}

func TestPoolStatsWithoutPool(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(t, "GET", "/pool/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["idle"])
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
}
