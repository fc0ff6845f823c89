package qz

import "github.com/cockroachdb/errors"

// Method is a request method from the closed set this server understands.
type Method uint8

const (
	MethodGet Method = iota + 1
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch

	numMethods = int(MethodPatch) + 1
)

var methodNames = [numMethods]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodConnect: "CONNECT",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
	MethodPatch:   "PATCH",
}

func (m Method) String() string {
	if int(m) <= 0 || int(m) >= numMethods {
		return "UNKNOWN"
	}

	return methodNames[m]
}

// ParseMethod matches an exact, case-sensitive method token.
func ParseMethod(tok []byte) (Method, bool) {
	for m := MethodGet; int(m) < numMethods; m++ {
		if methodNames[m] == string(tok) {
			return m, true
		}
	}

	return 0, false
}

// Version is the protocol version of a message. Only HTTP/1.1 is supported.
type Version uint8

const (
	Version11 Version = iota + 1
)

func (v Version) String() string {
	if v == Version11 {
		return "HTTP/1.1"
	}

	return "HTTP/?"
}

// Valid reports whether the version can be written to a status line.
func (v Version) Valid() bool { return v == Version11 }

// ParseVersion parses the protocol token of a request or status line. A well-formed token for any other
// version than 1.1 results in [CodeHTTPVersionNotSupported], anything else in [CodeBadRequest].
func ParseVersion(tok []byte) (Version, error) {
	if string(tok) == "HTTP/1.1" {
		return Version11, nil
	}

	if len(tok) == 8 && string(tok[:5]) == "HTTP/" && isDigit(tok[5]) && tok[6] == '.' && isDigit(tok[7]) {
		return 0, NewError(CodeHTTPVersionNotSupported, errors.Newf("unsupported version %q", tok))
	}

	return 0, NewError(CodeBadRequest, errors.Newf("malformed version %q", tok))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
