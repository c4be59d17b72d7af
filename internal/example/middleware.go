// Package example implements example middleware in an outside package.
package example

import (
	"context"
	"net/http"

	"github.com/pipehttp/phttp"
	"go.uber.org/zap"
)

// ctxKey type scopes middleware values.
type ctxKey string

// Middleware provides an example for middleware that adds a request-scoped logger to
// the context.
func Middleware(logs *zap.Logger) phttp.Middleware {
	return func(n phttp.Handler) phttp.Handler {
		return phttp.HandlerFunc(func(w phttp.ResponseWriter, r *http.Request) error {
			logs := logs.With(zap.String("method", r.Method))

			r = r.WithContext(context.WithValue(r.Context(), ctxKey("zap"), logs))

			return n.ServePHTTP(w, r)
		})
	}
}

// Log returns the logger [Middleware] stored on the context, nil when absent.
func Log(ctx context.Context) *zap.Logger {
	v, _ := ctx.Value(ctxKey("zap")).(*zap.Logger)

	return v
}
