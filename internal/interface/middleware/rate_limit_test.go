package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/ping", handlers...)
	r.OPTIONS("/ping", handlers...)
	return r
}

func hit(r *gin.Engine, method, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := newLimitedEngine(RateLimit(nil, 2, time.Minute, KeyByIP(), nil))

	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodGet, "203.0.113.7:1000").Code)
	w := hit(r, http.MethodGet, "203.0.113.7:1000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(r, http.MethodGet, "203.0.113.7:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// separate key, separate bucket
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodGet, "203.0.113.8:1000").Code)
	// preflight is never limited
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodOptions, "203.0.113.7:1000").Code)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := newLimitedEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), AllowPrivateIP()))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, http.MethodGet, "10.0.0.5:1000").Code)
	}
}

func TestRateLimit_DisabledWhenMisconfigured(t *testing.T) {
	r := newLimitedEngine(RateLimit(nil, 0, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, http.MethodGet, "203.0.113.7:1000").Code)
	}
}

func TestLocalLimiter_PrunesIdleKeys(t *testing.T) {
	l := newLocalLimiter(1, time.Second)
	past := time.Now().Add(-time.Hour)
	for i := 0; i < maxLocalKeys; i++ {
		l.get(string(rune('a'+i%26))+time.Duration(i).String(), past)
	}
	assert.Len(t, l.buckets, maxLocalKeys)

	l.get("fresh", time.Now())
	assert.Len(t, l.buckets, 1)
}

func TestKeyByUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(CtxRealIPKey, "203.0.113.7")

	assert.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))
	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}

func TestRequirePrivateIP_IgnoresForwardedHeaders(t *testing.T) {
	r := newLimitedEngine(RealIP(nil), RequirePrivateIP())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "203.0.113.7:1000"
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodGet, "127.0.0.1:1000").Code)
}

func TestRequestID(t *testing.T) {
	r := newLimitedEngine(RequestIDMiddleware())

	w := hit(r, http.MethodGet, "127.0.0.1:1000")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "3f1c1e0e-8a4b-4c55-9d0c-3b0f8f6d2a11")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f1c1e0e-8a4b-4c55-9d0c-3b0f8f6d2a11", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func realIPEngine(t *testing.T, proxies ...string) *gin.Engine {
	t.Helper()
	trusted, err := ParseTrustedProxies(proxies)
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP(trusted))
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })
	return r
}

func TestRealIP(t *testing.T) {
	cases := []struct {
		name    string
		proxies []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted peer ignores headers", nil, "203.0.113.9:4000",
			map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "203.0.113.9"},
		{"cloudflare from trusted peer", []string{"10.0.0.0/8"}, "10.0.0.5:4000",
			map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "198.51.100.1"},
		{"right-most untrusted hop", []string{"10.0.0.0/8"}, "10.0.0.5:4000",
			map[string]string{"X-Forwarded-For": "1.1.1.1, 198.51.100.2, 10.0.0.7"}, "198.51.100.2"},
		{"single trusted ip", []string{"10.0.0.5"}, "10.0.0.5:4000",
			map[string]string{"X-Forwarded-For": "198.51.100.3"}, "198.51.100.3"},
		{"garbage falls back to peer", []string{"10.0.0.0/8"}, "10.0.0.5:4000",
			map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := realIPEngine(t, tc.proxies...)
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestParseTrustedProxies_RejectsGarbage(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"10.0.0.0/8", "proxy.local"})
	assert.Error(t, err)
	nets, err := ParseTrustedProxies([]string{" ", "::1"})
	require.NoError(t, err)
	assert.Len(t, nets, 1)
}

func TestRateLimit_SpoofedForwardedForSharesBucket(t *testing.T) {
	r := newLimitedEngine(RealIP(nil), RateLimit(nil, 2, time.Minute, KeyByIPAndPath(), nil))

	codes := make([]int, 0, 3)
	for _, spoof := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:1000"
		req.Header.Set("X-Forwarded-For", spoof)
		req.Header.Set("CF-Connecting-IP", spoof)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
