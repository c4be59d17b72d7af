package phttp

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// standardMethods are the verbs for which an unmatched route is a plain not-found.
var standardMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Fallback returns the terminal handler invoked when the router has no match. Standard
// verbs fail with a 404 carried as an [Abortable] failure. OPTIONS always succeeds with
// a bare Allow header so discovery works without any registered route. Any other verb is
// rejected as not-implemented, distinguishing "no such verb" from "no such route".
func Fallback() Handler {
	return HandlerFunc(func(w ResponseWriter, r *http.Request) error {
		switch {
		case lo.Contains(standardMethods, r.Method):
			return NewError(CodeNotFound, errors.Newf("no route matches %s %s", r.Method, r.URL.Path))
		case r.Method == http.MethodOptions:
			w.Header().Set("Allow", http.MethodOptions)
			w.WriteHeader(http.StatusOK)

			return nil
		default:
			w.WriteHeader(http.StatusNotImplemented)

			return nil
		}
	})
}
