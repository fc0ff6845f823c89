package qz

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is a status code that mirrors the http status codes. It is used both for the status line of a
// [Response] and to create errors that are passed around across middleware layers.
type Code int

const (
	CodeUnknown Code = 0

	CodeContinue           Code = http.StatusContinue           // RFC 9110, 15.2.1
	CodeSwitchingProtocols Code = http.StatusSwitchingProtocols // RFC 9110, 15.2.2

	CodeOK                   Code = http.StatusOK                   // RFC 9110, 15.3.1
	CodeCreated              Code = http.StatusCreated              // RFC 9110, 15.3.2
	CodeAccepted             Code = http.StatusAccepted             // RFC 9110, 15.3.3
	CodeNonAuthoritativeInfo Code = http.StatusNonAuthoritativeInfo // RFC 9110, 15.3.4
	CodeNoContent            Code = http.StatusNoContent            // RFC 9110, 15.3.5
	CodeResetContent         Code = http.StatusResetContent         // RFC 9110, 15.3.6
	CodePartialContent       Code = http.StatusPartialContent       // RFC 9110, 15.3.7

	CodeMultipleChoices   Code = http.StatusMultipleChoices   // RFC 9110, 15.4.1
	CodeMovedPermanently  Code = http.StatusMovedPermanently  // RFC 9110, 15.4.2
	CodeFound             Code = http.StatusFound             // RFC 9110, 15.4.3
	CodeSeeOther          Code = http.StatusSeeOther          // RFC 9110, 15.4.4
	CodeNotModified       Code = http.StatusNotModified       // RFC 9110, 15.4.5
	CodeTemporaryRedirect Code = http.StatusTemporaryRedirect // RFC 9110, 15.4.8
	CodePermanentRedirect Code = http.StatusPermanentRedirect // RFC 9110, 15.4.9

	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

// Reason returns the standard reason phrase for the code, or "Unknown".
func (c Code) Reason() string {
	if s := http.StatusText(int(c)); s != "" {
		return s
	}

	return "Unknown"
}

// Valid reports whether the code fits the three-digit status line.
func (c Code) Valid() bool { return c >= 100 && c <= 999 }

var (
	// ErrNotFound is returned by the router when no route matches the path.
	ErrNotFound = NewError(CodeNotFound, errors.New("no route for path"))
	// ErrMethodNotAllowed is returned when the path matches but not for the method.
	ErrMethodNotAllowed = NewError(CodeMethodNotAllowed, errors.New("method not registered for path"))
)

// Error describes an error that carries a status code.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the status code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	if e.err == nil {
		return e.code.Reason()
	}

	return fmt.Sprintf("%s: %s", e.code.Reason(), e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if qzErr, ok := asError(err); ok {
		return qzErr.Code()
	}
	return CodeUnknown
}

// StatusFor decides which status a failed request is answered with. Coded errors keep their code, file system
// errors are mapped to 404 and 403, everything else becomes a 500.
func StatusFor(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case CodeOf(err) != CodeUnknown:
		return CodeOf(err)
	case errors.Is(err, fs.ErrNotExist):
		return CodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return CodeForbidden
	default:
		return CodeInternalServerError
	}
}

// asError uses errors.As to unwrap any error and look for a *Error.
func asError(err error) (*Error, bool) {
	var qzErr *Error
	ok := errors.As(err, &qzErr)
	return qzErr, ok
}
