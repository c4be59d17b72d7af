package phttp

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// MethodOverrideField is the form field consulted to rewrite the request method before
// dispatch, for clients that can only submit a limited set of verbs.
const MethodOverrideField = "_method"

// bodyMethods are the verbs a parsed override field is honored for.
var bodyMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// normalizeMethod mutates the request method before dispatch. It applies the body-field
// method override, records the resulting method, and rewrites HEAD to GET for the
// remainder of the dispatch. The returned token is consumed by the response finalizer
// to enforce HEAD's empty-body contract.
func normalizeMethod(r *http.Request) (original string) {
	if lo.Contains(bodyMethods, r.Method) {
		if v := r.PostFormValue(MethodOverrideField); v != "" {
			r.Method = strings.ToUpper(v)
		}
	}

	original = r.Method
	if original == http.MethodHead {
		r.Method = http.MethodGet
	}

	return original
}
