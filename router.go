package phttp

import "net/http"

// Router is the collaborator that decides which handler serves a request. The dispatcher
// holds a non-owning reference to it and calls it as the innermost link of the chain.
//
// Route returns nil when no route matches the request's method and path; that is not an
// error, the dispatcher branches to the fallback handler instead. Implementations must be
// safe to call concurrently for distinct requests.
type Router interface {
	Route(r *http.Request) Handler
}

// RouterFunc allows casting a function to an implementation of [Router].
type RouterFunc func(*http.Request) Handler

// Route implements the [Router] interface.
func (f RouterFunc) Route(r *http.Request) Handler {
	return f(r)
}
