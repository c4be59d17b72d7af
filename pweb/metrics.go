package pweb

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pipehttp/phttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the prometheus registry and the request instruments.
type Metrics struct {
	reg *prometheus.Registry

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewMetrics creates the registry and registers the request instruments on it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pweb",
			Name:      "http_requests_total",
			Help:      "Dispatched requests by method and status.",
		}, []string{"method", "status"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pweb",
			Name:      "http_request_duration_seconds",
			Help:      "Dispatch duration by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware records a counter and duration sample per dispatch. It runs inside the
// pipeline, before the error normalizer, so failed dispatches derive their status from
// the failure's carried code.
func (m *Metrics) Middleware() phttp.Middleware {
	return func(next phttp.Handler) phttp.Handler {
		return phttp.HandlerFunc(func(w phttp.ResponseWriter, r *http.Request) error {
			start := time.Now()
			err := next.ServePHTTP(w, r)

			status := w.Status()
			if err != nil {
				if code := phttp.CodeOf(err); code != phttp.CodeUnknown {
					status = int(code)
				} else {
					status = http.StatusInternalServerError
				}
			}

			m.requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			m.durations.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			return err
		})
	}
}
