package qz

import (
	"bytes"
	"context"
	"strings"
)

// Mount mounts a Handler on a sub-path. The mounted handler receives requests with the mount prefix stripped
// from the uri; middleware registered with [Builder.Use] still sees the original uri. Without methods the
// handler is mounted for every method.
func (b *Builder) Mount(prefix string, h Handler, methods ...Method) *Builder {
	prefix = strings.TrimSuffix(prefix, "/")
	if len(methods) == 0 {
		for m := MethodGet; int(m) < numMethods; m++ {
			methods = append(methods, m)
		}
	}

	stripped := stripPrefix(prefix, h)

	exact := prefix
	if exact == "" {
		exact = "/"
	}

	for _, m := range methods {
		b.Route(exact, m, stripped)
		b.Route(prefix+"/*", m, stripped)
	}

	return b
}

// MountFunc mounts a HandlerFunc on a sub-path.
func (b *Builder) MountFunc(prefix string, h HandlerFunc, methods ...Method) *Builder {
	return b.Mount(prefix, h, methods...)
}

func stripPrefix(prefix string, h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		uri := bytes.TrimPrefix(r.URI(), []byte(prefix))
		if len(uri) == 0 || uri[0] == '?' {
			uri = append([]byte{'/'}, uri...)
		}

		r2 := new(Request)
		*r2 = *r
		r2.uri = uri

		return h.Serve(ctx, r2)
	})
}
