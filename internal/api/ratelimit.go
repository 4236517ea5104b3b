package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter implements sliding window rate limiting keyed per client
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*slidingWindow
	limit    int
	window   time.Duration
	keyFunc  func(r *http.Request) string
	now      func() time.Time
	message  string
	stopCh   chan struct{}
	stopOnce sync.Once
}

type slidingWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Limit   int           // Max requests per window
	Window  time.Duration // Time window
	KeyFunc func(r *http.Request) string
	Message string // Body of the 429 response
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
// Call Stop when done with it.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = GetClientIP
	}
	if cfg.Message == "" {
		cfg.Message = "Rate limit exceeded"
	}

	rl := &RateLimiter{
		windows: make(map[string]*slidingWindow),
		limit:   cfg.Limit,
		window:  cfg.Window,
		keyFunc: cfg.KeyFunc,
		now:     time.Now,
		message: cfg.Message,
		stopCh:  make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// cleanup drops clients whose windows have emptied
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, sw := range rl.windows {
		sw.mu.Lock()
		sw.pruneOld(now, rl.window)
		if len(sw.timestamps) == 0 {
			delete(rl.windows, key)
		}
		sw.mu.Unlock()
	}
}

// Stop stops the cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// Allow records the request and reports whether it is within the limit.
// When it is not, the returned duration is how long until a slot frees up.
func (rl *RateLimiter) Allow(r *http.Request) (bool, time.Duration) {
	key := rl.keyFunc(r)
	now := rl.now()

	rl.mu.Lock()
	sw, exists := rl.windows[key]
	if !exists {
		sw = &slidingWindow{}
		rl.windows[key] = sw
	}
	rl.mu.Unlock()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pruneOld(now, rl.window)

	if len(sw.timestamps) >= rl.limit {
		return false, sw.timestamps[0].Add(rl.window).Sub(now)
	}

	sw.timestamps = append(sw.timestamps, now)
	return true, 0
}

// pruneOld removes timestamps older than the window
func (sw *slidingWindow) pruneOld(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(sw.timestamps) && sw.timestamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		sw.timestamps = sw.timestamps[i:]
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := rl.Allow(r); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			http.Error(w, rl.message, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// GetClientIP extracts the client IP from a request.
// chi middleware.RealIP already rewrote r.RemoteAddr from X-Real-IP /
// X-Forwarded-For, so only the port is stripped here. Reading those headers
// again would let a client spoof its way past per-IP limits.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiters holds all rate limiters for the application
type RateLimiters struct {
	Global *RateLimiter
	PDF    *RateLimiter
}

// NewRateLimiters creates the standard rate limiters
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		// Global: 100 requests per minute per IP
		Global: NewRateLimiter(RateLimitConfig{
			Limit:  100,
			Window: time.Minute,
		}),
		// PDF: 5 per minute per IP, each one costs two upstream calls and a render
		PDF: NewRateLimiter(RateLimitConfig{
			Limit:   5,
			Window:  time.Minute,
			Message: "PDF rate limit exceeded (max 5/min)",
		}),
	}
}

// Stop stops all rate limiter cleanup goroutines
func (rls *RateLimiters) Stop() {
	rls.Global.Stop()
	rls.PDF.Stop()
}
