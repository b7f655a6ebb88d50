package logkafka

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrecedence(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:34562"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")

	assert.Equal(t, "203.0.113.9", ClientIP(req), "CF-Connecting-IP wins")

	req.Header.Del("CF-Connecting-IP")
	assert.Equal(t, "198.51.100.7", ClientIP(req), "left-most forwarded entry next")

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.5", ClientIP(req), "socket address last")

	req.RemoteAddr = ""
	assert.Equal(t, "unknown", ClientIP(req))
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	assert.Equal(t, http.StatusOK, rw.statusCode, "defaults to 200 for implicit writes")

	rw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoggingMiddlewarePassesThroughWithoutKafka(t *testing.T) {
	// No writer initialized; the middleware must still serve the request.
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/api/menu/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
