package phttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Document is the structured body collaborator the normalizer serializes error payloads
// into: a mapping of named fields serializable to a wire document.
type Document interface {
	Set(field string, value any)
	Encode(w io.Writer) error
}

// DocumentFactory produces an empty document per error response.
type DocumentFactory func() Document

// JSONDocument is the default [Document], serialized with encoding/json.
type JSONDocument map[string]any

// NewJSONDocument inits an empty JSON document.
func NewJSONDocument() Document {
	return JSONDocument{}
}

func (d JSONDocument) Set(field string, value any) {
	d[field] = value
}

func (d JSONDocument) Encode(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(map[string]any(d)); err != nil {
		return errors.Wrap(err, "encode json document")
	}

	return nil
}

// ErrorRenderer is the view collaborator used on markup-preferring error paths. It turns
// the failure value into a renderable document written to 'w'.
type ErrorRenderer interface {
	RenderError(w io.Writer, r *http.Request, failure error, code Code) error
}

// ErrorRendererFunc allows casting a function to an implementation of [ErrorRenderer].
type ErrorRendererFunc func(io.Writer, *http.Request, error, Code) error

// RenderError implements the [ErrorRenderer] interface.
func (f ErrorRendererFunc) RenderError(w io.Writer, r *http.Request, failure error, code Code) error {
	return f(w, r, failure, code)
}

// PlainErrorRenderer renders a minimal html error page, used when no view collaborator
// is configured.
func PlainErrorRenderer() ErrorRenderer {
	return ErrorRendererFunc(func(w io.Writer, _ *http.Request, _ error, code Code) error {
		_, err := fmt.Fprintf(w,
			"<!DOCTYPE html>\n<html><head><title>%[1]d %[2]s</title></head><body><h1>%[1]d %[2]s</h1></body></html>\n",
			int(code), http.StatusText(int(code)))

		return errors.Wrap(err, "write html error page")
	})
}

// normalizeErrors is the outermost middleware: the single point where failures are
// converted into well-formed responses. Successful responses pass through after an
// observational content-type check.
func normalizeErrors(env Environment, logs Logger, views ErrorRenderer, docs DocumentFactory) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(w ResponseWriter, r *http.Request) error {
			err := next.ServePHTTP(w, r)
			if err == nil {
				if w.Status() != http.StatusNotModified && w.Header().Get("Content-Type") == "" {
					logs.Warn(fmt.Sprintf(
						"response %d to %s %s has no Content-Type header", w.Status(), r.Method, r.URL.Path))
				}

				return nil
			}

			code := CodeOf(err)
			if code == CodeUnknown {
				code = CodeInternalServerError
			}

			logs.Error(failureDetail(err))

			// whatever the handler wrote so far is replaced by the error response
			w.Reset()

			if prefersMarkup(r.Header.Get("Accept")) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(int(code))

				return errors.Wrap(views.RenderError(w, r, err, code), "render markup error response")
			}

			doc := docs()
			doc.Set("error", true)
			doc.Set("reason", http.StatusText(int(code)))

			if !env.IsProduction() {
				if abortErr, ok := AsAbortable(err); ok && len(abortErr.Metadata()) > 0 {
					doc.Set("metadata", abortErr.Metadata())
				}

				if diagErr, ok := AsDiagnosable(err); ok {
					if diagErr.Reason() != "" {
						doc.Set("reason", diagErr.Reason())
					}

					doc.Set("identifier", diagErr.Identifier())

					setNonEmpty(doc, "possibleCauses", diagErr.PossibleCauses())
					setNonEmpty(doc, "suggestedFixes", diagErr.SuggestedFixes())
					setNonEmpty(doc, "documentationLinks", diagErr.DocumentationLinks())
					setNonEmpty(doc, "stackOverflowQuestions", diagErr.StackOverflowQuestions())
					setNonEmpty(doc, "gitHubIssues", diagErr.GitHubIssues())
				}
			}

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(int(code))

			return errors.Wrap(doc.Encode(w), "encode error document")
		})
	}
}

func setNonEmpty(doc Document, field string, list []string) {
	if len(list) > 0 {
		doc.Set(field, list)
	}
}

// failureDetail formats the single log line for a failure: every diagnostic part that is
// available for diagnosable failures, the dynamic type and string form otherwise.
func failureDetail(err error) string {
	diagErr, ok := AsDiagnosable(err)
	if !ok {
		return fmt.Sprintf("%T: %s (implement the Diagnosable capability for richer diagnostics)", err, err)
	}

	parts := make([]string, 0, 7)
	if diagErr.Reason() != "" {
		parts = append(parts, diagErr.Reason())
	}

	if diagErr.Identifier() != "" {
		parts = append(parts, diagErr.Identifier())
	}

	for _, list := range [][]string{
		diagErr.PossibleCauses(),
		diagErr.SuggestedFixes(),
		diagErr.DocumentationLinks(),
		diagErr.StackOverflowQuestions(),
		diagErr.GitHubIssues(),
	} {
		if len(list) > 0 {
			parts = append(parts, "["+strings.Join(list, ", ")+"]")
		}
	}

	return strings.Join(parts, " ")
}

// prefersMarkup scans the accept preference list in order and reports whether markup
// outranks a structured document. An empty or indifferent list prefers the document.
func prefersMarkup(accept string) bool {
	for _, pref := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(pref)
		if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
			mediaType = mediaType[:idx]
		}

		switch {
		case strings.Contains(mediaType, "html"):
			return true
		case strings.Contains(mediaType, "json"), mediaType == "*/*":
			return false
		}
	}

	return false
}
