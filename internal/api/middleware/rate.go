package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

const (
	// clientIdleTTL is how long a client's limiter survives without
	// traffic before eviction reclaims it.
	clientIdleTTL = 3 * time.Minute

	evictInterval = time.Minute
)

// clientLimiter pairs a limiter with its last use for eviction.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore tracks per-IP limiters and evicts idle ones so the map
// cannot grow without bound.
type limiterStore struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     int
	burst   int
}

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	return &limiterStore{
		clients: make(map[string]*clientLimiter),
		rps:     cfg.RequestsPerSecond,
		burst:   cfg.Burst,
	}
}

// get returns the limiter for ip, creating one on first sight.
func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// evict removes limiters idle longer than ttl, returning how many went.
func (s *limiterStore) evict(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for ip, cl := range s.clients {
		if time.Since(cl.lastSeen) > ttl {
			delete(s.clients, ip)
			removed++
		}
	}
	return removed
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	store := newLimiterStore(cfg)

	go func() {
		for range time.Tick(evictInterval) {
			store.evict(clientIdleTTL)
		}
	}()

	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
