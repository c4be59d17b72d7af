package phttp

import (
	"net/http"
)

// ResponseWriter implements http.ResponseWriter but the underlying bytes are buffered until
// the dispatcher flushes them. This allows middleware and the error normalizer to reset the
// writer and formulate a completely new response.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the buffered status code, defaulting to 200 when none was written.
	Status() int

	// Reset discards the buffered status, headers and body so a fresh response can be
	// written. It panics when bytes were already flushed to the underlying writer.
	Reset()

	// Free returns the buffer to its pool. Called by the dispatcher, once.
	Free()

	// FlushBuffer writes the buffered response to the underlying writer.
	FlushBuffer() error
}

// Handler mirrors http.Handler but writes to a buffered response and returns an error
// instead of requiring inline error handling. Failures returned from a handler propagate
// through the middleware chain to the error normalizer.
type Handler interface {
	ServePHTTP(w ResponseWriter, r *http.Request) error
}

// HandlerFunc allows casting a function to an implementation of [Handler].
type HandlerFunc func(ResponseWriter, *http.Request) error

// ServePHTTP implements the [Handler] interface.
func (f HandlerFunc) ServePHTTP(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}
