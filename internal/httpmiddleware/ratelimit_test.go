package httpmiddleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimpleTokenBucket(t *testing.T) {
	l := NewSimpleTokenBucket(2, 60)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok, "bucket drained")

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = now.Add(2 * time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "refilled at 60/min")
}

func TestSimpleTokenBucketKeepsPartialRefill(t *testing.T) {
	l := NewSimpleTokenBucket(2, 60)
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	now := start
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _ := l.Allow(ctx, "k")
		require.True(t, ok)
	}

	now = start.Add(1500 * time.Millisecond)
	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok, "one token after 1.5s")

	now = start.Add(2 * time.Second)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok, "half second carried over")

	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)
}

func newRedisWindow(t *testing.T, perMinute int) (*RedisWindow, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWindow(client, "", perMinute), mr
}

func TestRedisWindow(t *testing.T) {
	l, mr := newRedisWindow(t, 2)
	now := time.Date(2024, 1, 1, 8, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within limit", i+1)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "third request in the same minute")

	key := "mess:ratelimit:1.2.3.4:" + strconv.FormatInt(now.Unix()/60, 10)
	require.True(t, mr.Exists(key))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, 2*time.Minute, mr.TTL(key))

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = now.Add(30 * time.Second)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "new window")
}

func TestRedisWindowFailsOpen(t *testing.T) {
	l, mr := newRedisWindow(t, 1)
	mr.Close()

	ok, err := l.Allow(context.Background(), "1.2.3.4")
	assert.Error(t, err)
	assert.True(t, ok)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return true, errors.New("redis down")
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serve := func(l Limiter) int {
		r := gin.New()
		r.Use(RateLimit(l, zap.NewNop()))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, serve(failingLimiter{}), "fails open")
	assert.Equal(t, http.StatusTooManyRequests, serve(denyLimiter{}))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop(), "/healthz"), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, w.Header().Get(RequestIDHeader))
}
