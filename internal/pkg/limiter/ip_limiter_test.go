package limiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestMiddlewareAllowsWithinBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 3)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/livekit/token", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMiddlewareRejectsOverBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 2)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/livekit/token", nil)
		r.RemoteAddr = "10.0.0.2:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec
	}

	send()
	send()
	rec := send()

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body struct {
		Error string `json:"error"`
		Stage string `json:"stage"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate_limit", body.Stage)
	assert.NotEmpty(t, body.Error)
}

func TestMiddlewareIsolatesClientsByIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/livekit/token", nil)
		r.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec
	}

	// The first client exhausts its bucket; a different IP is unaffected.
	assert.Equal(t, http.StatusOK, send("10.0.0.3:5000").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.3:5001").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.4:5000").Code)
}
