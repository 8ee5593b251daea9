package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	TabsActive  prometheus.Gauge
	TabsCreated prometheus.Counter
	TabsClosed  prometheus.Counter
	TabSwitches prometheus.Counter

	// Pool metrics
	PoolIdle   prometheus.Gauge
	PoolClaims *prometheus.CounterVec

	// Index metrics
	IndexPaths      prometheus.Gauge
	IndexRefreshes  *prometheus.CounterVec
	RefreshDuration prometheus.Histogram

	// Search metrics
	SearchesTotal  prometheus.Counter
	SearchDuration prometheus.Histogram

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON stats API
type Snapshot struct {
	TotalRequests int64
	TotalErrors   int64
	ActiveTabs    int64
	Connections   int64
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "folio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		TabsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "folio_tabs_active",
				Help: "Number of open tab surfaces",
			},
		),
		TabsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_tabs_created_total",
				Help: "Total number of tab surfaces created",
			},
		),
		TabsClosed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_tabs_closed_total",
				Help: "Total number of tab surfaces closed",
			},
		),
		TabSwitches: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_tab_switches_total",
				Help: "Total number of tab switches",
			},
		),

		// Pool metrics
		PoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "folio_pool_idle_surfaces",
				Help: "Number of idle pre-provisioned surfaces",
			},
		),
		PoolClaims: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_pool_claims_total",
				Help: "Pool claim attempts by outcome",
			},
			[]string{"outcome"},
		),

		// Index metrics
		IndexPaths: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "folio_index_paths",
				Help: "Number of paths in the file index snapshot",
			},
		),
		IndexRefreshes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_index_refreshes_total",
				Help: "File index refresh attempts by status",
			},
			[]string{"status"},
		),
		RefreshDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "folio_index_refresh_duration_seconds",
				Help:    "File index refresh duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		// Search metrics
		SearchesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_searches_total",
				Help: "Total number of file searches",
			},
		),
		SearchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "folio_search_duration_seconds",
				Help:    "File search duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "folio_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "folio_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetTabsActive sets the number of open tab surfaces
func (m *Metrics) SetTabsActive(count int) {
	m.TabsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveTabs = int64(count)
	m.mu.Unlock()
}

// IncTabsCreated increments the tab creation counter
func (m *Metrics) IncTabsCreated() {
	m.TabsCreated.Inc()
}

// IncTabsClosed increments the tab close counter
func (m *Metrics) IncTabsClosed() {
	m.TabsClosed.Inc()
}

// IncTabSwitches increments the tab switch counter
func (m *Metrics) IncTabSwitches() {
	m.TabSwitches.Inc()
}

// SetPoolIdle sets the idle surface gauge
func (m *Metrics) SetPoolIdle(count int) {
	m.PoolIdle.Set(float64(count))
}

// RecordPoolClaim records a pool claim attempt ("hit" or "miss")
func (m *Metrics) RecordPoolClaim(outcome string) {
	m.PoolClaims.WithLabelValues(outcome).Inc()
}

// SetIndexPaths sets the snapshot size gauge
func (m *Metrics) SetIndexPaths(count int) {
	m.IndexPaths.Set(float64(count))
}

// RecordIndexRefresh records a refresh attempt ("ok" or "error")
func (m *Metrics) RecordIndexRefresh(status string, duration time.Duration) {
	m.IndexRefreshes.WithLabelValues(status).Inc()
	m.RefreshDuration.Observe(duration.Seconds())
}

// RecordSearch records a search and its duration
func (m *Metrics) RecordSearch(duration time.Duration) {
	m.SearchesTotal.Inc()
	m.SearchDuration.Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.Connections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.Connections--
	m.mu.Unlock()
}

// GetSnapshot returns a copy of the current snapshot values
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
