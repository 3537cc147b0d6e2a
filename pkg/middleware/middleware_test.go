package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donor-relay/pkg/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}

func TestCORS_AddsHeaders(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assertCORS(t, rec.Header())
}

func TestCORS_NotFoundStillCarriesHeaders(t *testing.T) {
	router := gin.New()
	router.Use(CORS())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertCORS(t, rec.Header())
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	router := gin.New()
	router.Use(CORS())
	router.POST("/api/submit-blood-request", func(c *gin.Context) { called = true })
	router.NoRoute(func(c *gin.Context) { called = true })

	for _, path := range []string{"/api/submit-blood-request", "/pages/anything.html", "/"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assertCORS(t, rec.Header())
	}
	assert.False(t, called)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.NewLogger(&buf, "info", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	var sawID bool
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/fetch-requests", func(c *gin.Context) {
		_, sawID = logging.CorrelationID(c.Request.Context())
		c.Status(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch-requests", nil))

	require.True(t, sawID)
	out := buf.String()
	assert.Contains(t, out, "Request handled")
	assert.Contains(t, out, "path=/api/fetch-requests")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "correlation_id=")
}
