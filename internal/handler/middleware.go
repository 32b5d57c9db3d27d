package handler

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	"github.com/segyhp/clinic-finance-engine/pkg/response"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// RateLimiter throttles each client IP independently. Clients idle longer
// than the idle TTL are evicted.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*rateClient
	rps        rate.Limit
	burst      int
	idleTTL    time.Duration
	trustProxy bool
	lastSweep  time.Time
	now        func() time.Time
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption customizes a RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxy keys clients by X-Forwarded-For / X-Real-IP. Only use it
// behind a proxy that overwrites those headers.
func WithTrustedProxy(trusted bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.trustProxy = trusted
	}
}

// WithIdleTTL sets how long an unused client limiter is kept
func WithIdleTTL(ttl time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) {
		if ttl > 0 {
			rl.idleTTL = ttl
		}
	}
}

func NewRateLimiter(rps float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateClient),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.lastSweep = rl.now()
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiter(clientIP(r, rl.trustProxy))

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			wait := reservation.Delay()
			reservation.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			response.TooManyRequests(w, fmt.Sprintf("Rate limit of %.0f requests per second exceeded", float64(rl.rps)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	client, ok := rl.clients[key]
	if !ok {
		client = &rateClient{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweep drops clients idle for at least idleTTL. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.idleTTL {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// size returns the number of tracked clients
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientIP returns the peer address. Forwarding headers are honored only when
// trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			return strings.TrimSpace(ips[0])
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MetricsMiddleware records request durations per route template
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := response.NewRecorder(w)

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(recorder.StatusCode)).
			Observe(time.Since(start).Seconds())
	})
}
