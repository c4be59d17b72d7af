// Package phttp provides an HTTP request-dispatch pipeline with buffered responses and
// error-returning handlers.
//
// # Overview
//
// phttp turns an inbound request into an outbound response by running a chain of
// cross-cutting middleware, delegating matched work to a pluggable [Router], answering
// unmatched work with protocol-mandated fallback behavior, normalizing any failure into
// a well-formed response, and enforcing HEAD semantics as the very last step. Routing
// itself, view rendering, the wire document model and the logging backend are external
// collaborators consumed through small interfaces.
//
// A minimal example:
//
//	routes := phttp.RouterFunc(func(r *http.Request) phttp.Handler {
//	    if r.Method == http.MethodGet && r.URL.Path == "/items" {
//	        return phttp.HandlerFunc(listItems)
//	    }
//	    return nil // no match, the dispatcher falls back
//	})
//
//	d := phttp.NewDispatcher(routes, phttp.WithEnvironment(phttp.Production))
//	http.ListenAndServe(":8080", d)
//
// # Handler Signature
//
// phttp handlers differ from standard http.Handlers in two ways: they write to a
// [ResponseWriter] that buffers output, and they return an error that triggers
// centralized error handling:
//
//	func(w phttp.ResponseWriter, r *http.Request) error
//
// # Buffered Response Writer
//
// All writes are held in memory until the dispatcher flushes. This enables complete
// response replacement when errors occur mid-handler, header modification after initial
// writes, and body truncation for HEAD requests. [ResponseWriter.Reset] clears the
// buffered status, headers and body for a fresh response; explicit flushing through
// http.NewResponseController is supported, after which Reset panics.
//
// # Dispatch Order
//
// Per request the dispatcher runs: method normalization (body-field method override,
// HEAD rewritten to GET) → middleware chain (first registered is outermost) → router →
// fallback when the router has no match (404 for standard verbs, bare 200 with an Allow
// header for OPTIONS, 501 otherwise) → error normalization → HEAD body truncation →
// implicit flush. No path exits without producing a response.
//
// # Error Handling
//
// Failures returned by handlers or middleware propagate unmodified to the error
// normalizer, the single point of conversion to a response. Two optional capabilities
// are probed there with errors.As:
//
//   - [Abortable]: carries an explicit status code and client-facing metadata. Create
//     such failures with [NewError] and the [Code] constants.
//   - [Diagnosable]: carries developer diagnostics (reason, stable identifier, possible
//     causes, suggested fixes, references). [DiagnosticError] implements both.
//
// Failures with neither capability map to 500. The normalizer always logs maximal
// detail; what is returned to the client depends on the [Environment]: in [Production]
// the error document carries only the generic reason phrase, otherwise it includes
// metadata and diagnostics. Clients whose Accept list prefers markup receive a page from
// the configured [ErrorRenderer] instead of a document.
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns:
//
//	func timing(next phttp.Handler) phttp.Handler {
//	    return phttp.HandlerFunc(func(w phttp.ResponseWriter, r *http.Request) error {
//	        start := time.Now()
//	        err := next.ServePHTTP(w, r)
//	        log.Printf("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
//	        return err
//	    })
//	}
//
//	d.Use(timing)
//
// Middleware may short-circuit by writing a response without calling through, intercept
// and recover failures, or reset and replace responses entirely. [Dispatcher.Use] must
// be called before the first dispatch.
package phttp
