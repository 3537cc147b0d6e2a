package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	err error
}

func (s stubClient) Fetch(context.Context) ([]byte, error) { return []byte("{}"), s.err }

func (s stubClient) Submit(context.Context, url.Values) ([]byte, error) { return []byte("{}"), s.err }

func TestMiddleware_LabelsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/fetch-requests", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/fetch-requests", "/index.html", "/pages/a.html"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/fetch-requests", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "static", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlightGauge))
}

func TestInstrumentClient_CountsOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	ok := m.InstrumentClient(stubClient{})
	failing := m.InstrumentClient(stubClient{err: errors.New("dial tcp: connection refused")})

	_, err := ok.Fetch(context.Background())
	require.NoError(t, err)
	_, err = ok.Submit(context.Background(), url.Values{})
	require.NoError(t, err)
	_, err = failing.Submit(context.Background(), url.Values{})
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("fetch", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("submit", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("submit", "error")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.UpstreamCalls.WithLabelValues("fetch", "success").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `donor_relay_upstream_calls_total{operation="fetch",outcome="success"} 1`)
}
