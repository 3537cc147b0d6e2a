package metrics

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donor-relay/pkg/clients/appsscript"
)

const namespace = "donor_relay"

// staticRoute labels requests that fell through to the file server so the
// label set stays bounded.
const staticRoute = "static"

// Metrics holds the Prometheus collectors for the relay.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
	UpstreamCalls   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
		UpstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Calls made to the Apps Script endpoint by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge, m.UpstreamCalls)
	return m
}

// Middleware returns a gin middleware that records HTTP metrics.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = staticRoute
		}

		m.InFlightGauge.Inc()
		defer m.InFlightGauge.Dec()

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			status := strconv.Itoa(c.Writer.Status())
			m.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(v)
			m.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		}))

		c.Next()
		timer.ObserveDuration()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// InstrumentClient wraps an Apps Script client so every outbound call is counted.
func (m *Metrics) InstrumentClient(next appsscript.Client) appsscript.Client {
	return &instrumentedClient{next: next, calls: m.UpstreamCalls}
}

type instrumentedClient struct {
	next  appsscript.Client
	calls *prometheus.CounterVec
}

func (c *instrumentedClient) Fetch(ctx context.Context) ([]byte, error) {
	body, err := c.next.Fetch(ctx)
	c.calls.WithLabelValues("fetch", outcome(err)).Inc()
	return body, err
}

func (c *instrumentedClient) Submit(ctx context.Context, form url.Values) ([]byte, error) {
	body, err := c.next.Submit(ctx, form)
	c.calls.WithLabelValues("submit", outcome(err)).Inc()
	return body, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
