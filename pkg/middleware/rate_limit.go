package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
)

// ClientKeyFunc identifies the caller a request is charged to. An empty key
// bypasses the limiter.
type ClientKeyFunc func(r *http.Request) string

// ClientRateLimiter is a sliding-window limiter keyed per client.
type ClientRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	keyFunc  ClientKeyFunc
	log      *logger.Logger
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewClientRateLimiter(limit int, window time.Duration, keyFunc ClientKeyFunc, log *logger.Logger) *ClientRateLimiter {
	if keyFunc == nil {
		keyFunc = DefaultClientKey
	}
	limiter := &ClientRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		keyFunc:  keyFunc,
		log:      log,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) >= rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow records a request for key and reports whether it fits in the window.
// The check and the record happen under one lock.
func (rl *ClientRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.requests[key][:0:0]
	for _, ts := range rl.requests[key] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func RateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.keyFunc(r)

			if !limiter.Allow(key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"client", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", retryAfter(limiter.window))
				httputil.WriteError(w, apperrors.New("RATE_LIMITED", "Rate limit exceeded", http.StatusTooManyRequests))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultClientKey charges requests to the remote host.
func DefaultClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HeaderClientKey charges requests to the value of header, falling back to
// the remote host. Only use it behind a proxy that sets the header itself.
func HeaderClientKey(header string) ClientKeyFunc {
	return func(r *http.Request) string {
		if id := r.Header.Get(header); id != "" {
			return id
		}
		return DefaultClientKey(r)
	}
}

// retryAfter rounds the window up to whole seconds, never below one.
func retryAfter(window time.Duration) string {
	secs := int((window + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
