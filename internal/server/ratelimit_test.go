package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 2, nil)
	defer limiter.Close()

	// Burst of 2, then the bucket is empty
	assert.True(t, limiter.Allow("client-a"))
	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	// Keys are independent
	assert.True(t, limiter.Allow("client-b"))
}

func TestRateLimiterStats(t *testing.T) {
	limiter := NewRateLimiter(120, time.Minute, 5, nil)
	defer limiter.Close()

	limiter.Allow("x")
	limiter.Allow("y")

	stats := limiter.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, 5, stats["burst_capacity"])
	assert.InDelta(t, 2.0, stats["rate_per_second"], 0.01)
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 1, nil)
	defer limiter.Close()

	limiter.Allow("stale")
	limiter.cleanup(0)

	stats := limiter.GetStats()
	assert.Equal(t, 0, stats["active_limiters"])
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		header   map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{
			name:     "api key header",
			header:   map[string]string{"X-API-Key": "secret"},
			byAPIKey: true,
			want:     "api:secret",
		},
		{
			name:     "bearer token",
			header:   map[string]string{"Authorization": "Bearer secret"},
			byAPIKey: true,
			want:     "api:secret",
		},
		{
			name:     "falls back to ip",
			byAPIKey: true,
			byIP:     true,
			want:     "ip:192.0.2.1",
		},
		{
			name: "disabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/analyze", nil)
			r.RemoteAddr = "192.0.2.1:55000"
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getRateLimitKey(r, tt.byAPIKey, tt.byIP))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	r.RemoteAddr = "192.0.2.1:55000"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.1")
	assert.Equal(t, "203.0.113.7", getClientIP(r))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(r))
}
