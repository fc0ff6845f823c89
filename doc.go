// Package qz is a small HTTP/1.1 server with a radix tree router and onion style middleware.
//
// # Overview
//
// A [Server] accepts TCP connections and answers exactly one request per connection. Bytes read from the
// connection are fed into a [RequestAssembler] that copes with requests arriving in arbitrarily small chunks.
// Once the request is complete it passes through the middleware [Chain], the [Router] picks a [Handler] and the
// resulting [Response] is written back with "Connection: close".
//
// A minimal example:
//
//	srv := qz.NewBuilder().
//	    RouteFunc("/hello", qz.MethodGet, func(ctx context.Context, r *qz.Request) (*qz.Response, error) {
//	        return qz.Text(qz.CodeOK, "hello"), nil
//	    }, "hello").
//	    Build()
//
//	log.Fatal(srv.ListenAndServe(":8080"))
//
// # Handler Signature
//
// Handlers receive the request and return either a response or an error:
//
//	func(ctx context.Context, r *qz.Request) (*qz.Response, error)
//
// Returning an error created with [NewError] answers with that status and an empty body. Errors from the
// file system are mapped onto 404 and 403, any other error becomes a 500 and is logged.
//
// # Routing
//
// Routes are registered per path and method. A path ending in "/*" matches every path below it, but an exact
// route always wins:
//
//	b.Route("/static/*", qz.MethodGet, files)
//	b.Route("/static/index.html", qz.MethodGet, index) // takes precedence
//
// A path without any route answers 404; a path with routes for other methods answers 405 with an Allow header.
//
// # Middleware
//
// Middleware sees every request before it is routed and every response after it is produced:
//
//	timing := qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
//	    start := time.Now()
//	    resp, err := next(ctx, r)
//	    log.Printf("%s %s took %v", r.Method(), r.Path(), time.Since(start))
//	    return resp, err
//	})
//
// Not calling next short-circuits the chain. The middleware provided first is the outer most.
//
// # Shared State
//
// A single value can be shared with every handler through [Builder.WithState] and retrieved with [State].
// Sharing is by reference: guard mutable state with a mutex or atomics.
//
// # Named Routes and URL Reversing
//
// Routes can be named for URL generation, avoiding hardcoded paths:
//
//	b.Route("/users/*", qz.MethodGet, getUser, "get-user")
//	url, err := srv.Reverse("get-user", "123") // returns "/users/123"
//
// # Limitations
//
// There is no keep-alive, pipelining, chunked transfer-encoding or 100-continue handling. Request bodies need a
// Content-Length header.
package qz
