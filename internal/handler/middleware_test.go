package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/plan", nil)
		req.RemoteAddr = ip + ":51234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/plan", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiter_TrustedProxyUsesForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, 1, WithTrustedProxy(true))
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/plan", nil)
		req.RemoteAddr = "10.0.0.254:443"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("198.51.100.1"))
	assert.Equal(t, http.StatusOK, call("198.51.100.2"))
	assert.Equal(t, 2, limiter.size())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1, WithIdleTTL(time.Minute))
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	call := func(ip string) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1000"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	for i := 0; i < 1000; i++ {
		call(fmt.Sprintf("10.1.%d.%d", i/256, i%256))
	}
	assert.Equal(t, 1000, limiter.size())

	now = now.Add(2 * time.Minute)
	call("10.9.9.9")
	assert.Equal(t, 1, limiter.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4000"
	req.Header.Set("X-Real-IP", "172.16.0.5")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.168.1.10", clientIP(req, false))
	assert.Equal(t, "203.0.113.7", clientIP(req, true))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "172.16.0.5", clientIP(req, true))

	req.Header.Del("X-Real-IP")
	assert.Equal(t, "192.168.1.10", clientIP(req, true))
}

func TestMetricsMiddleware_RecordsRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/api/v1/fee-schedules/defaults", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/fee-schedules/defaults", nil))

	count := testutil.CollectAndCount(metrics.HTTPRequestDuration, "clinic_finance_http_request_duration_seconds")
	assert.GreaterOrEqual(t, count, 1)
}
