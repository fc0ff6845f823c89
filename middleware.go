package qz

import "context"

// Next continues processing with the rest of the chain.
type Next func(ctx context.Context, r *Request) (*Response, error)

// Middleware intercepts requests before they reach the handler. It may change the request before calling
// next, change the response after it, or answer on its own by not calling next at all.
type Middleware interface {
	Intercept(ctx context.Context, r *Request, next Next) (*Response, error)
}

// MiddlewareFunc allow casting a function to implement [Middleware].
type MiddlewareFunc func(ctx context.Context, r *Request, next Next) (*Response, error)

// Intercept implements the [Middleware] interface.
func (f MiddlewareFunc) Intercept(ctx context.Context, r *Request, next Next) (*Response, error) {
	return f(ctx, r, next)
}

// Chain is an ordered, immutable list of middleware. The middleware provided first is called first and
// is the outer most, the middleware provided last is closest to the handler.
type Chain struct {
	mws []Middleware
}

// NewChain copies the middleware into a new chain.
func NewChain(mws ...Middleware) Chain {
	return Chain{mws: append([]Middleware(nil), mws...)}
}

// Len returns the number of middleware in the chain.
func (c Chain) Len() int { return len(c.mws) }

// Run passes the request through every middleware and finally to h.
func (c Chain) Run(ctx context.Context, r *Request, h Handler) (*Response, error) {
	return c.next(0, h)(ctx, r)
}

// Then composes the chain and h into a single handler.
func (c Chain) Then(h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		return c.Run(ctx, r, h)
	})
}

func (c Chain) next(i int, h Handler) Next {
	if i >= len(c.mws) {
		return h.Serve
	}

	return func(ctx context.Context, r *Request) (*Response, error) {
		return c.mws[i].Intercept(ctx, r, c.next(i+1, h))
	}
}
