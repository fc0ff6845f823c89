package app

import "github.com/advdv/qz"

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *app.Runtime[Env]
//	}
//
//	func NewHandlers(rt *app.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) GetItem(ctx context.Context, r *qz.Request) (*qz.Response, error) {
//	    env := h.rt.Env()
//	    url, _ := h.rt.Reverse("get-item", id)
//	    // ...
//	}
type Runtime[E Environment] struct {
	env     E
	builder *qz.Builder
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, builder *qz.Builder) *Runtime[E] {
	return &Runtime[E]{env: env, builder: builder}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given wildcard value.
// The route must have been registered with a name.
func (r *Runtime[E]) Reverse(name string, vals ...string) (string, error) {
	return r.builder.Reverse(name, vals...)
}
