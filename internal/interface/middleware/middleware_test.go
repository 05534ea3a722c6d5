package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

type staticResolver map[string]*entity.Account

func (r staticResolver) Resolve(_ context.Context, token string) (*entity.Account, error) {
	if a, ok := r[token]; ok {
		return a, nil
	}
	return nil, application.ErrUnauthorized
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int, time.Duration) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func newLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb), mr
}

func doGet(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	acc := &entity.Account{ID: "u1", Email: "john@example.com"}
	r := gin.New()
	r.GET("/me", Auth(staticResolver{"good": acc}), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentAccount(c).Email+"|"+c.GetString(CtxUserIDKey))
	})

	w := doGet(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/me", bearer("bad"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/me", bearer("good"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "john@example.com|u1", w.Body.String())

	w = doGet(r, "/me", http.Header{"Cookie": []string{helpers.AccessCookie + "=good"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitRejectsBeforeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newLimiter(t)
	calls := 0
	r := gin.New()
	r.GET("/contacts", RateLimit(limiter, 10, time.Minute, KeyByIPAndPath(), nil, nil), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		w := doGet(r, "/contacts", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := doGet(r, "/contacts", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 10, calls)
}

func TestRateLimitWindowResets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, mr := newLimiter(t)
	r := gin.New()
	r.GET("/contacts", RateLimit(limiter, 2, time.Minute, KeyByIP(), nil, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doGet(r, "/contacts", nil).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/contacts", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/contacts", nil).Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doGet(r, "/contacts", nil).Code)
}

func TestRateLimitPerUserAndRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newLimiter(t)
	resolver := staticResolver{
		"a": {ID: "ua"},
		"b": {ID: "ub"},
	}
	limit := RateLimit(limiter, 1, time.Minute, KeyByUserAndPath(), nil, nil)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/contacts", Auth(resolver), limit, ok)
	r.GET("/contacts/search", Auth(resolver), limit, ok)

	assert.Equal(t, http.StatusOK, doGet(r, "/contacts", bearer("a")).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/contacts", bearer("a")).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/contacts", bearer("b")).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/contacts/search", bearer("a")).Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/contacts", RateLimit(brokenLimiter{}, 1, time.Minute, KeyByIP(), nil, helpers.NewDiscardLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/contacts", nil).Code)
	}
}

func TestRateLimitStrictRejectsWhenLimiterDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.GET("/contacts", RateLimitStrict(brokenLimiter{}, 1, time.Minute, KeyByIP(), nil, helpers.NewDiscardLogger()), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	w := doGet(r, "/contacts", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "rate limiter unavailable")
	assert.Zero(t, calls)
}

func TestMetricsCountsByRouteAndCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/contacts/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	doGet(r, "/contacts/1", nil)
	doGet(r, "/contacts/2", nil)
	doGet(r, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/contacts/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contacts_http_request_duration_seconds_bucket")
}

func TestMetricsNilIsSafe(t *testing.T) {
	var m *Metrics
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotNil(t, m.Middleware())
}

func TestRateLimitAllowBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newLimiter(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/contacts", RateLimit(limiter, 1, time.Minute, KeyByIP(), AllowIPs([]string{"10.1.2.3"}), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	h := http.Header{"X-Forwarded-For": []string{"10.1.2.3, 172.16.0.1"}}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/contacts", h).Code)
	}
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	w := doGet(r, "/ip", http.Header{"Cf-Connecting-Ip": []string{"203.0.113.9"}, "X-Forwarded-For": []string{"198.51.100.1"}})
	assert.Equal(t, "203.0.113.9", w.Body.String())

	w = doGet(r, "/ip", http.Header{"X-Forwarded-For": []string{"198.51.100.1, 10.0.0.1"}})
	assert.Equal(t, "198.51.100.1", w.Body.String())

	w = doGet(r, "/ip", http.Header{"X-Real-Ip": []string{"garbage"}})
	assert.Equal(t, "192.0.2.1", w.Body.String())
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := doGet(r, "/id", nil)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const id = "0b7e4e3c-9a55-4c4e-9f1e-3f1b2d1c0a11"
	w = doGet(r, "/id", http.Header{RequestIDHeader: []string{id}})
	assert.Equal(t, id, w.Body.String())
}

func TestSecureHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecureHeaders(false))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
