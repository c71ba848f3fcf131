package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-care/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := newRouter()
	r.Use(RateLimiter(cfg))
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return r
}

func login(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_WithoutRedis(t *testing.T) {
	captureLogs(t)
	config.SetRedisClientForTest(nil)

	r := limitedRouter(RateLimitConfig{Limit: 5, Window: 15 * time.Minute})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, login(r), "request %d", i+1)
	}
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	captureLogs(t)
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })

	key := rateLimitKey("192.168.1.1", "/api/auth/login")
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	r := limitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})
	assert.Equal(t, http.StatusOK, login(r))
	assert.Equal(t, http.StatusOK, login(r))
	assert.Equal(t, http.StatusTooManyRequests, login(r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	buf := captureLogs(t)
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })

	mock.ExpectIncr(rateLimitKey("192.168.1.1", "/api/auth/login")).SetErr(errors.New("connection refused"))

	r := limitedRouter(RateLimitConfig{})
	assert.Equal(t, http.StatusOK, login(r))
	assert.Contains(t, buf.String(), "SUSPICIOUS_ACTIVITY")
}

func TestResetRateLimit(t *testing.T) {
	config.SetRedisClientForTest(nil)
	assert.Error(t, ResetRateLimit(context.Background(), "192.168.1.1", "/test"))

	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })
	mock.ExpectDel(rateLimitKey("192.168.1.1", "/test")).SetVal(1)

	require.NoError(t, ResetRateLimit(context.Background(), "192.168.1.1", "/test"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
