package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foliohq/folio/backend/internal/api/ws"
	"github.com/foliohq/folio/backend/internal/domain/index"
	"github.com/foliohq/folio/backend/internal/domain/pool"
	"github.com/foliohq/folio/backend/internal/domain/search"
	"github.com/foliohq/folio/backend/internal/domain/session"
	"github.com/foliohq/folio/backend/internal/infrastructure/config"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/shared/id"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store   *session.Store
	pool    *pool.Manager
	index   *index.Index
	ranker  *search.Ranker
	hub     *ws.Hub
	events  ws.Events
	metrics *monitoring.Metrics
	cfg     *config.Config
}

// NewHandlers creates a new handler set
func NewHandlers(
	store *session.Store,
	surfacePool *pool.Manager,
	fileIndex *index.Index,
	ranker *search.Ranker,
	hub *ws.Hub,
	events ws.Events,
	metrics *monitoring.Metrics,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		store:   store,
		pool:    surfacePool,
		index:   fileIndex,
		ranker:  ranker,
		hub:     hub,
		events:  events,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Folio Session Service (Go)",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"session": h.store.Stats(),
		"index":   h.index.Stats(),
		"host":    gin.H{"connected": h.hub.HostConnected()},
	})
}

type createTabRequest struct {
	Kind         string  `json:"kind"`
	DocumentPath *string `json:"document_path"`
	Title        string  `json:"title"`
}

// CreateTab opens a new tab and makes it active
func (h *Handlers) CreateTab(c *gin.Context) {
	var req createTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	kind, err := resolveKind(req.Kind, req.DocumentPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := req.Title
	if title == "" {
		if kind == types.KindDocument {
			title = filepath.Base(*req.DocumentPath)
		} else {
			title = h.cfg.Session.InitialTitle
		}
	}

	tabID, err := h.store.Create(kind, req.DocumentPath, title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tab_id":  tabID,
	})
}

func resolveKind(kind string, documentPath *string) (types.SurfaceKind, error) {
	switch types.SurfaceKind(kind) {
	case types.KindHome:
		return types.KindHome, nil
	case types.KindDocument:
		if documentPath == nil || *documentPath == "" {
			return "", errors.New("document tab requires document_path")
		}
		return types.KindDocument, nil
	case "":
		if documentPath != nil && *documentPath != "" {
			return types.KindDocument, nil
		}
		return types.KindHome, nil
	default:
		return "", errors.New("unknown tab kind: " + kind)
	}
}

// ListTabs returns the full session state
func (h *Handlers) ListTabs(c *gin.Context) {
	state := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"tabs":      state.Surfaces,
		"active_id": state.ActiveID,
		"stats":     h.store.Stats(),
	})
}

// FocusTab brings a tab to the foreground
func (h *Handlers) FocusTab(c *gin.Context) {
	tabID, ok := tabIDParam(c)
	if !ok {
		return
	}
	if err := h.store.Switch(tabID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tab_id": tabID})
}

// CloseTab closes a tab and destroys its surface
func (h *Handlers) CloseTab(c *gin.Context) {
	tabID, ok := tabIDParam(c)
	if !ok {
		return
	}
	if err := h.store.Close(tabID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tab_id": tabID})
}

type renameTabRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameTab updates a tab's title
func (h *Handlers) RenameTab(c *gin.Context) {
	tabID, ok := tabIDParam(c)
	if !ok {
		return
	}
	var req renameTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	h.store.Rename(tabID, req.Title)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// tabIDParam validates the :id path parameter, rejecting malformed IDs
func tabIDParam(c *gin.Context) (string, bool) {
	tabID := c.Param("id")
	if !id.IsValid(tabID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tab id"})
		return "", false
	}
	return tabID, true
}

// NextTab cycles forward through tabs
func (h *Handlers) NextTab(c *gin.Context) {
	if err := h.store.Next(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PrevTab cycles backward through tabs
func (h *Handlers) PrevTab(c *gin.Context) {
	if err := h.store.Prev(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type switchByIndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SwitchByIndex activates the tab at an ordinal position
func (h *Handlers) SwitchByIndex(c *gin.Context) {
	var req switchByIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}
	if err := h.store.SwitchByIndex(*req.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CloseActive closes the active tab, or the window when it is the last
func (h *Handlers) CloseActive(c *gin.Context) {
	if err := h.store.CloseActiveOrWindow(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WindowResized handles a window geometry change from the host shell
func (h *Handlers) WindowResized(c *gin.Context) {
	var bounds types.WindowBounds
	if err := c.ShouldBindJSON(&bounds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window bounds"})
		return
	}
	h.events.WindowResized(bounds)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WindowFocused handles the window regaining focus
func (h *Handlers) WindowFocused(c *gin.Context) {
	h.events.WindowFocused()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WindowCloseRequest handles the user asking to close the window
func (h *Handlers) WindowCloseRequest(c *gin.Context) {
	h.events.WindowCloseRequested()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SearchFiles ranks indexed files against a query
func (h *Handlers) SearchFiles(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	// Serve the current index; a stale one refreshes behind the scenes
	h.index.RefreshIfStale(h.cfg.Index.StaleAfter)

	start := time.Now()
	results := h.ranker.Rank(query, h.index.Paths())
	if h.metrics != nil {
		h.metrics.RecordSearch(time.Since(start))
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// RefreshIndex forces a background re-enumeration
func (h *Handlers) RefreshIndex(c *gin.Context) {
	h.index.RefreshAsync()
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// IndexStats returns file index statistics
func (h *Handlers) IndexStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.index.Stats())
}

// PoolStats returns surface pool statistics
func (h *Handlers) PoolStats(c *gin.Context) {
	if h.pool == nil {
		c.JSON(http.StatusOK, types.PoolStats{})
		return
	}
	c.JSON(http.StatusOK, h.pool.Stats())
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrHostUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrIndexOutOfBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ws.ErrNoHost):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
