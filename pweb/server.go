package pweb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pipehttp/phttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// DefaultHealthPath is where the readiness probe is served unless configured otherwise.
const DefaultHealthPath = "/healthz"

// DefaultMetricsPath is where the prometheus scrape endpoint is served.
const DefaultMetricsPath = "/metrics"

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthPath    string
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Dispatcher *phttp.Dispatcher
	Metrics    *Metrics
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server around the dispatcher with tracing, health and
// metrics endpoints and h2c support for cleartext HTTP/2.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = DefaultHealthPath
	}

	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	// The health and scrape endpoints live outside the pipeline: probes should not go
	// through method normalization, fallback or error negotiation.
	metricsHandler := params.Metrics.Handler()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case healthPath:
			healthHandler(w, r)
		case DefaultMetricsPath:
			metricsHandler.ServeHTTP(w, r)
		default:
			params.Dispatcher.ServeHTTP(w, r)
		}
	})

	traced := withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath)(root)
	handler := h2c.NewHandler(traced, &http2.Server{})

	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := serverTimeouts(params.Env.requestTimeout())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// serverTimeouts derives the server-level timeouts from the configured per-request
// budget, following the usual guidance for internet-facing Go servers: bound the header
// read tightly, give the full budget plus headroom to read/write, and keep idle
// connections around long enough for reuse.
func serverTimeouts(requestTimeout time.Duration) (readHeader, read, write, idle time.Duration) {
	readHeader = 5 * time.Second
	if requestTimeout < readHeader {
		readHeader = requestTimeout
	}

	read = requestTimeout + 5*time.Second
	write = requestTimeout + 5*time.Second
	idle = 120 * time.Second

	return readHeader, read, write, idle
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
