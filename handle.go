package qz

import (
	"context"
)

// Handler answers a single request. Returning an error instead of a response lets the server turn it
// into a status-only response; use [NewError] to pick the status.
type Handler interface {
	Serve(ctx context.Context, r *Request) (*Response, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(context.Context, *Request) (*Response, error)

// Serve implements the [Handler] interface.
func (f HandlerFunc) Serve(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// Static returns a handler that always responds with a copy of resp.
func Static(resp *Response) Handler {
	return HandlerFunc(func(context.Context, *Request) (*Response, error) {
		c := *resp
		c.header = resp.header.Clone()
		return &c, nil
	})
}

// Status returns a handler that responds with a status line and nothing else.
func Status(c Code) Handler {
	return HandlerFunc(func(context.Context, *Request) (*Response, error) {
		return NewResponse(c), nil
	})
}
