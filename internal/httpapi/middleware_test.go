package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	api := newTestAPI(t, 3)

	id := uuid.NewString()
	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/materials/"+id, nil)
		req.RemoteAddr = "203.0.113.7:54321"
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		return rec
	}

	for i := 1; i <= 3; i++ {
		rec := get()
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code, "request %d within budget", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(3-i), rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := get()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestRateLimitSeparatesClients(t *testing.T) {
	api := newTestAPI(t, 1)

	do := func(addr, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/materials/"+uuid.NewString(), nil)
		req.RemoteAddr = addr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		return rec.Code
	}

	// Two requests through the same proxy hop but different origin
	// clients each get their own budget.
	assert.NotEqual(t, http.StatusTooManyRequests, do("10.0.0.1:1111", "198.51.100.1, 10.0.0.1"))
	assert.NotEqual(t, http.StatusTooManyRequests, do("10.0.0.1:1111", "198.51.100.2, 10.0.0.1"))

	// Same origin client exhausts its budget of one.
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1111", "198.51.100.1, 10.0.0.1"))
}

func TestHealthzBypassesRateLimit(t *testing.T) {
	api := newTestAPI(t, 1)

	probe := func() int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, probe())
	}
}

func TestLoggingAssignsRequestID(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(http.MethodGet, "/healthz", nil)
	id := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestClientIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	assert.Equal(t, "203.0.113.7", clientIdentity(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIdentity(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", clientIdentity(req))
}
