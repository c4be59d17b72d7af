package phttp

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It can be used to create
// errors to pass around across middleware layers to handle errors structurally.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeProxyAuthRequired            Code = http.StatusProxyAuthRequired            // RFC 9110, 15.5.8
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeMisdirectedRequest           Code = http.StatusMisdirectedRequest           // RFC 9110, 15.5.20
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeLocked                       Code = http.StatusLocked                       // RFC 4918, 11.3
	CodeFailedDependency             Code = http.StatusFailedDependency             // RFC 4918, 11.4
	CodeTooEarly                     Code = http.StatusTooEarly                     // RFC 8470, 5.2.
	CodeUpgradeRequired              Code = http.StatusUpgradeRequired              // RFC 9110, 15.5.22
	CodePreconditionRequired         Code = http.StatusPreconditionRequired         // RFC 6585, 3
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeVariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates         // RFC 2295, 8.1
	CodeInsufficientStorage           Code = http.StatusInsufficientStorage           // RFC 4918, 11.5
	CodeLoopDetected                  Code = http.StatusLoopDetected                  // RFC 5842, 7.2
	CodeNotExtended                   Code = http.StatusNotExtended                   // RFC 2774, 7
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

// Abortable is the capability carried by expected, user-facing failures: an explicit
// status code and an optional metadata mapping shown to the client outside production.
// It is probed with [AsAbortable] at the normalization boundary only.
type Abortable interface {
	error
	Code() Code
	Metadata() map[string]any
}

// Diagnosable is the capability carried by failures with rich developer diagnostics. The
// error normalizer logs every non-empty part and, outside production, includes them in
// the error document. Orthogonal to [Abortable]: a failure may carry both, either or
// neither capability.
type Diagnosable interface {
	error
	Reason() string
	Identifier() string
	PossibleCauses() []string
	SuggestedFixes() []string
	DocumentationLinks() []string
	StackOverflowQuestions() []string
	GitHubIssues() []string
}

// Error describes an http error. It implements [Abortable].
type Error struct {
	code Code
	meta map[string]any
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

// WithMeta returns the error with a metadata field added.
func (e *Error) WithMeta(name string, value any) *Error {
	if e.meta == nil {
		e.meta = map[string]any{}
	}

	e.meta[name] = value

	return e
}

func (e *Error) Code() Code { return e.code }

// Metadata returns the metadata mapping added through [Error.WithMeta], nil when none.
func (e *Error) Metadata() map[string]any { return e.meta }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// DiagnosticError is a failure that carries structured developer diagnostics. It
// implements [Diagnosable] and, when Status is set, [Abortable].
type DiagnosticError struct {
	// Status is the http status reported to the client, CodeInternalServerError when zero.
	Status Code
	// Meta is shown to the client outside production.
	Meta map[string]any

	// Summary is the human readable reason for the failure.
	Summary string
	// ID is a stable identifier for this failure kind.
	ID string

	Causes    []string
	Fixes     []string
	Docs      []string
	Questions []string
	Issues    []string
}

func (e *DiagnosticError) Error() string  { return e.Summary }
func (e *DiagnosticError) Reason() string { return e.Summary }

func (e *DiagnosticError) Identifier() string { return e.ID }

func (e *DiagnosticError) Code() Code               { return e.Status }
func (e *DiagnosticError) Metadata() map[string]any { return e.Meta }

func (e *DiagnosticError) PossibleCauses() []string         { return e.Causes }
func (e *DiagnosticError) SuggestedFixes() []string         { return e.Fixes }
func (e *DiagnosticError) DocumentationLinks() []string     { return e.Docs }
func (e *DiagnosticError) StackOverflowQuestions() []string { return e.Questions }
func (e *DiagnosticError) GitHubIssues() []string           { return e.Issues }

// CodeOf returns the error's status code if it (or an error it wraps) carries the
// [Abortable] capability and [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if abortErr, ok := AsAbortable(err); ok {
		return abortErr.Code()
	}
	return CodeUnknown
}

// AsAbortable uses errors.As to unwrap any error and probe the [Abortable] capability.
func AsAbortable(err error) (Abortable, bool) {
	var abortErr Abortable
	ok := errors.As(err, &abortErr)
	return abortErr, ok
}

// AsDiagnosable uses errors.As to unwrap any error and probe the [Diagnosable] capability.
func AsDiagnosable(err error) (Diagnosable, bool) {
	var diagErr Diagnosable
	ok := errors.As(err, &diagErr)
	return diagErr, ok
}

var (
	_ Abortable   = &Error{}
	_ Abortable   = &DiagnosticError{}
	_ Diagnosable = &DiagnosticError{}
)
