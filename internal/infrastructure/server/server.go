package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/foliohq/folio/backend/internal/api/http"
	"github.com/foliohq/folio/backend/internal/api/middleware"
	"github.com/foliohq/folio/backend/internal/api/ws"
	"github.com/foliohq/folio/backend/internal/domain/index"
	"github.com/foliohq/folio/backend/internal/domain/pool"
	"github.com/foliohq/folio/backend/internal/domain/search"
	"github.com/foliohq/folio/backend/internal/domain/session"
	"github.com/foliohq/folio/backend/internal/host"
	"github.com/foliohq/folio/backend/internal/infrastructure/config"
	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/infrastructure/tasks"
	"github.com/foliohq/folio/backend/internal/shared/paths"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	store   *session.Store
	pool    *pool.Manager
	index   *index.Index
	hub     *ws.Hub
	spawner *tasks.Spawner
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		if cfg.Logging.Development {
			logger = logging.NewDevelopment()
		} else {
			logger = logging.NewDefault()
		}
		logger.Warn("invalid log level, using default", zap.String("level", cfg.Logging.Level))
	}

	logger.Info("Initializing Folio session service",
		zap.String("port", cfg.Server.Port),
		zap.String("host", cfg.Server.Host),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	spawner := tasks.NewSpawner(logger.Named("tasks"))

	// The hub carries state broadcasts out and window events in; the
	// remote binding rides its host plane
	hub := ws.NewHub(logger.Named("ws")).WithMetrics(metrics)
	binding := host.NewRemote(hub)

	// Surface pool
	var surfacePool *pool.Manager
	if cfg.Pool.Enabled && cfg.Pool.TargetSize > 0 {
		surfacePool = pool.NewManager(binding, spawner, logger.Named("pool"), cfg.Pool.TargetSize, cfg.Session.ChromeOffset).
			WithMetrics(metrics)
		logger.Info("Surface pool enabled", zap.Int("target_size", cfg.Pool.TargetSize))
	}

	// Session store
	store := session.NewStore(binding, hub, logger.Named("session"), cfg.Session.ChromeOffset, cfg.Session.InitialTitle).
		WithMetrics(metrics)
	if surfacePool != nil {
		store.WithPool(surfacePool)
	}

	// File index and search
	root := cfg.Index.Root
	if root == "" {
		home, err := paths.HomeRoot()
		if err != nil {
			logger.Warn("Failed to resolve home directory", zap.Error(err))
		}
		root = home
	}
	walker := index.NewWalker(root, cfg.Index.ContentType, cfg.Index.Extensions, cfg.Index.Excludes, logger.Named("index"))
	fileIndex := index.New(walker, spawner, logger.Named("index")).WithMetrics(metrics)
	ranker := search.NewRanker(root, cfg.Search.MaxResults)
	logger.Info("File index configured",
		zap.String("root", root),
		zap.String("content_type", cfg.Index.ContentType),
	)

	// Window events drive session bootstrap, resize fan-out, and
	// focus-triggered index refreshes
	events := newCoordinator(binding, store, surfacePool, fileIndex, spawner, logger.Named("events"), cfg.Index.StaleAfter)
	hub.SetEvents(events)

	// Warm the index at startup; geometry-dependent bootstrap waits for
	// the host shell to report its window
	fileIndex.RefreshAsync()

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := api.NewHandlers(store, surfacePool, fileIndex, ranker, hub, events, metrics, cfg)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Tab management
	router.POST("/tabs", handlers.CreateTab)
	router.GET("/tabs", handlers.ListTabs)
	router.POST("/tabs/:id/focus", handlers.FocusTab)
	router.POST("/tabs/:id/title", handlers.RenameTab)
	router.DELETE("/tabs/:id", handlers.CloseTab)

	// Session navigation
	router.POST("/session/next-tab", handlers.NextTab)
	router.POST("/session/prev-tab", handlers.PrevTab)
	router.POST("/session/switch-by-index", handlers.SwitchByIndex)
	router.POST("/session/close-active", handlers.CloseActive)

	// Window events (HTTP fallback; the host shell normally sends these
	// over its WebSocket connection)
	router.POST("/window/resized", handlers.WindowResized)
	router.POST("/window/focused", handlers.WindowFocused)
	router.POST("/window/close-request", handlers.WindowCloseRequest)

	// File search
	router.GET("/search/files", handlers.SearchFiles)
	router.POST("/search/refresh", handlers.RefreshIndex)
	router.GET("/search/stats", handlers.IndexStats)

	// Pool
	router.GET("/pool/stats", handlers.PoolStats)

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		store:   store,
		pool:    surfacePool,
		index:   fileIndex,
		hub:     hub,
		spawner: spawner,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.pool != nil {
		s.pool.Drain()
	}
	s.spawner.Wait()
	s.logger.Sync()
	return nil
}
