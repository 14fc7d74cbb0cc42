package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits attempts per key, such as login attempts per client IP
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows burst attempts per key, refilled at one per interval
func NewThrottle(interval time.Duration, burst int) *Throttle {
	return &Throttle{
		limiters: make(map[string]*throttleEntry),
		limit:    rate.Every(interval),
		burst:    burst,
		idle:     time.Duration(burst) * interval,
		now:      time.Now,
	}
}

// Allow reports whether key may make another attempt now
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	e, ok := t.limiters[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops keys idle long enough for their bucket to be full again
func (t *Throttle) sweep(now time.Time) {
	for key, e := range t.limiters {
		if now.Sub(e.lastSeen) > t.idle {
			delete(t.limiters, key)
		}
	}
}

// Middleware rejects requests from a client IP over its limit with 429
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code":"TOO_MANY_ATTEMPTS","error":"too many login attempts, try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
