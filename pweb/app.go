package pweb

import (
	"net/http"

	"github.com/pipehttp/phttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	ErrorRenderer phttp.ErrorRenderer
	Middleware    []phttp.Middleware
	FxOptions     []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection. Use it to provide the router's own
// dependencies and any extra collaborators.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithMiddleware registers pipeline middleware, first provided is outermost.
func WithMiddleware(mw ...phttp.Middleware) Option {
	return func(c *AppConfig) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithErrorRenderer sets the view collaborator for markup-preferring error paths.
func WithErrorRenderer(views phttp.ErrorRenderer) Option {
	return func(c *AppConfig) {
		c.ErrorRenderer = views
	}
}

// WithHealthHandler sets a custom health check handler at the given path. If not set, a
// default handler returning 200 OK is served at [DefaultHealthPath].
func WithHealthHandler(path string, h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthPath = path
		c.HealthHandler = h
	}
}

// NewApp creates a batteries-included app around the dispatch pipeline. The router is
// built through fx so its constructor can request any provided dependency:
//
//	pweb.NewApp[Env](func(db *pgxpool.Pool) phttp.Router {
//	    return myRoutes(db)
//	},
//	    pweb.WithFx(fx.Provide(newPool)),
//	    pweb.WithMiddleware(authMiddleware),
//	).Run()
func NewApp[E Environment](router any, opts ...Option) *App {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 10+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(NewLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewMetrics),
		fx.Provide(NewHTTPTransport),
		fx.Provide(NewHTTPClient),
		fx.Provide(NewRequestBuilder),
		fx.Provide(router),
		fx.Provide(newDispatcherProvider(&cfg)),
		fx.Provide(func(params ServerParams) *http.Server {
			return NewServer(params, cfg.ServerConfig)
		}),
		fx.Invoke(startServerHook),
	}...)
	baseOpts = append(baseOpts, cfg.FxOptions...)

	return &App{app: fx.New(baseOpts...)}
}

// newDispatcherProvider builds the pipeline from the resolved router and environment.
func newDispatcherProvider(cfg *AppConfig) func(Environment, *zap.Logger, *Metrics, phttp.Router) *phttp.Dispatcher {
	return func(env Environment, logs *zap.Logger, metrics *Metrics, router phttp.Router) *phttp.Dispatcher {
		dopts := []phttp.Option{
			phttp.WithEnvironment(env.runtime()),
			phttp.WithLogger(newPipelineLogger(logs)),
		}
		if cfg.ErrorRenderer != nil {
			dopts = append(dopts, phttp.WithErrorRenderer(cfg.ErrorRenderer))
		}

		d := phttp.NewDispatcher(router, dopts...)
		d.Use(metrics.Middleware())
		d.Use(cfg.Middleware...)

		return d
	}
}

// Run starts the application and blocks until shutdown.
func (a *App) Run() {
	a.app.Run()
}

// Err returns any error encountered while building the dependency graph.
func (a *App) Err() error {
	return a.app.Err()
}
