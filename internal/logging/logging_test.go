package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug", false).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("warn", true).GetLevel())
	// Garbage and empty both fall back to info.
	assert.Equal(t, zerolog.InfoLevel, New("", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("loud", false).GetLevel())
}

func TestMiddlewareTagsRequests(t *testing.T) {
	var inner *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = r
		w.WriteHeader(http.StatusTeapot)
	})

	h := Middleware(zerolog.Nop())(next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reference", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	require.NotNil(t, inner)
	// The tagged logger rides on the request context.
	assert.NotNil(t, zerolog.Ctx(inner.Context()))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/reference", nil))
	assert.NotEqual(t, rec.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
}
