package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1")
	require.True(t, ok)

	ok, wait := rl.Allow("10.0.0.1")
	require.False(t, ok)
	require.Equal(t, time.Minute, wait)

	// other clients have their own window
	ok, _ = rl.Allow("10.0.0.2")
	require.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = rl.Allow("10.0.0.1")
	require.True(t, ok)
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/run", NewRateLimiter(1, time.Minute).Limit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send().Code)

	w := send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "60", w.Header().Get("Retry-After"))
}
