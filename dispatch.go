package phttp

import (
	"fmt"
	"log"
	"net/http"
	"sync"
)

// Dispatcher is the request-dispatch pipeline: it turns an inbound request into an
// outbound response by running the middleware chain around the router, falling back to
// protocol-mandated behavior for unmatched routes, normalizing any failure into a
// well-formed response, and enforcing HEAD semantics as the final step. It implements
// http.Handler and is safe for concurrent use once serving has started.
type Dispatcher struct {
	router   Router
	fallback Handler
	env      Environment
	logs     Logger
	views    ErrorRenderer
	docs     DocumentFactory
	bufLimit int

	middlewares struct {
		captured bool
		buffered []Middleware
	}

	composeOnce sync.Once
	composed    Handler
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithEnvironment sets the runtime environment flag, [Development] when not set.
func WithEnvironment(env Environment) Option {
	return func(d *Dispatcher) { d.env = env }
}

// WithLogger sets the leveled log sink.
func WithLogger(logs Logger) Option {
	return func(d *Dispatcher) { d.logs = logs }
}

// WithErrorRenderer sets the view collaborator for markup-preferring error paths.
func WithErrorRenderer(views ErrorRenderer) Option {
	return func(d *Dispatcher) { d.views = views }
}

// WithDocumentFactory sets the document model collaborator for structured error bodies.
func WithDocumentFactory(docs DocumentFactory) Option {
	return func(d *Dispatcher) { d.docs = docs }
}

// WithBufferLimit caps the buffered response body in bytes, unlimited when negative.
func WithBufferLimit(limit int) Option {
	return func(d *Dispatcher) { d.bufLimit = limit }
}

// NewDispatcher creates a pipeline around the externally owned router.
func NewDispatcher(router Router, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router:   router,
		fallback: Fallback(),
		env:      Development,
		logs:     NewStdLogger(log.Default()),
		views:    PlainErrorRenderer(),
		docs:     NewJSONDocument,
		bufLimit: -1,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Use allows providing of middleware. The middleware provided first is the outermost
// wrapping: it has first refusal on the request and last refusal on the response.
func (d *Dispatcher) Use(mw ...Middleware) {
	if d.middlewares.captured {
		panic("phttp: cannot call Use() after dispatching has started")
	}

	d.middlewares.buffered = append(d.middlewares.buffered, mw...)
}

// ServeHTTP makes the dispatcher implement the http.Handler interface. Every dispatch
// produces exactly one response; failures never escape unconverted.
func (d *Dispatcher) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	w := newBufferResponse(resp, d.bufLimit)
	defer w.Free()

	original := normalizeMethod(req)

	if err := d.handler().ServePHTTP(w, req); err != nil {
		// the normalizer itself failed to produce a response, so we render a plain 500
		// to keep the client from ending up with a white screen.
		d.logs.Error(fmt.Sprintf("unhandled dispatch error: %s", err))
		w.Reset()
		http.Error(w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
	}

	// per protocol, HEAD must never return a body
	if original == http.MethodHead {
		w.TruncateBody()
	}

	if err := w.FlushBuffer(); err != nil {
		d.logs.Error(fmt.Sprintf("error while flushing implicitly: %s", err))
	}
}

// handler composes the pipeline once: the error normalizer outermost, then the
// registered middleware, then routing with the fallback as the innermost link.
func (d *Dispatcher) handler() Handler {
	d.composeOnce.Do(func() {
		d.middlewares.captured = true

		routed := HandlerFunc(func(w ResponseWriter, r *http.Request) error {
			if h := d.router.Route(r); h != nil {
				return h.ServePHTTP(w, r)
			}

			return d.fallback.ServePHTTP(w, r)
		})

		normalize := normalizeErrors(d.env, d.logs, d.views, d.docs)
		d.composed = normalize(Chain(routed, d.middlewares.buffered...))
	})

	return d.composed
}
