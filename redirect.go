package qz

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Redirect returns a handler that answers with the redirect code and a Location header. It panics when
// the code is not a 3xx code.
func Redirect(c Code, location string) Handler {
	if c < 300 || c > 399 {
		panic(errors.Newf("qz: redirect with non-redirect code %d", c))
	}

	return HandlerFunc(func(context.Context, *Request) (*Response, error) {
		resp := NewResponse(c)
		resp.SetHeader(HeaderLocation, location)
		return resp, nil
	})
}

// MovedPermanently redirects with 301.
func MovedPermanently(location string) Handler { return Redirect(CodeMovedPermanently, location) }

// Found redirects with 302.
func Found(location string) Handler { return Redirect(CodeFound, location) }

// SeeOther redirects with 303.
func SeeOther(location string) Handler { return Redirect(CodeSeeOther, location) }
