// Package http exposes the survey API over JSON endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"feira/internal/cache"
	"feira/internal/catalog"
	"feira/internal/middleware/trace"
	"feira/internal/services"
)

// Server wraps http.Server with the survey service and its route table.
type Server struct {
	http.Server
	svc            *services.SurveyService
	catalog        *catalog.Catalog
	favoritesLimit int
	rateLimiter    *rateLimiter

	// Cached favorites list, invalidated whenever a collection is saved.
	favoritesCache *cache.LRUCache[[]string]

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures the route table and returns a ready-to-run server.
func NewServer(addr string, svc *services.SurveyService, cat *catalog.Catalog, favoritesLimit int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:            svc,
		catalog:        cat,
		favoritesLimit: favoritesLimit,
		rateLimiter:    newRateLimiter(),
		favoritesCache: cache.NewLRUCache[[]string](16, 30*time.Second),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("POST /api/v0/collections", s.handleRecordCollection)
	mux.HandleFunc("GET /api/v0/collections/today", s.handleTodayRecords)
	mux.HandleFunc("PUT /api/v0/collections/{product}/prices", s.handleUpdatePrices)
	mux.HandleFunc("GET /api/v0/favorites", s.handleFavorites)
	mux.HandleFunc("GET /api/v0/products", s.handleSearchProducts)
	mux.HandleFunc("GET /api/v0/export/today.csv", s.handleDownloadCSV)
	mux.HandleFunc("POST /api/v0/export", s.handleExport)

	traced := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           traced.Middleware(s.withRateLimit(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// withRateLimit throttles mutating requests per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.rateLimiter.allow(extractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
