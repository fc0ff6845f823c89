package qz

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ErrServerClosed is returned by [Server.Serve] after a call to [Server.Shutdown].
var ErrServerClosed = errors.New("qz: server closed")

// Config holds the connection level settings of a [Server].
type Config struct {
	// ReadTimeout bounds the time from accepting a connection until the request is fully read.
	ReadTimeout time.Duration
	// WriteTimeout bounds the time it takes to write the response.
	WriteTimeout time.Duration
	// MaxHeaderBytes limits the request line plus headers.
	MaxHeaderBytes int
	// MaxBodyBytes limits the declared Content-Length of a request.
	MaxBodyBytes int
	// ReadBufferSize is the size of the per-connection scratch buffer.
	ReadBufferSize int
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		ReadBufferSize: 4096,
	}
}

// Builder collects routes, middleware and shared state. It is the only way to construct a [Server].
type Builder struct {
	router   *Router
	reverser *Reverser
	mws      []Middleware
	state    any
	logs     Logger
	cfg      Config
	built    bool
}

// NewBuilder creates a builder with default settings. It logs through the global zap logger.
func NewBuilder() *Builder {
	return &Builder{
		router:   NewRouter(),
		reverser: NewReverser(),
		logs:     NewZapLogger(zap.L()),
		cfg:      DefaultConfig(),
	}
}

// Route registers a handler for the path and method. An optional name allows reversing the route.
func (b *Builder) Route(path string, m Method, h Handler, name ...string) *Builder {
	b.ensureNotBuilt("Route")

	if len(name) > 0 {
		path = b.reverser.Named(name[0], path)
	}

	b.router.Add(path, m, h)
	return b
}

// RouteFunc registers a handler function for the path and method.
func (b *Builder) RouteFunc(path string, m Method, h HandlerFunc, name ...string) *Builder {
	return b.Route(path, m, h, name...)
}

// Use appends middleware. Middleware runs in the order it is provided, for every request, including the
// ones that do not match any route.
func (b *Builder) Use(mw ...Middleware) *Builder {
	b.ensureNotBuilt("Use")
	b.mws = append(b.mws, mw...)
	return b
}

// WithState makes v available to every handler through [State].
func (b *Builder) WithState(v any) *Builder {
	b.ensureNotBuilt("WithState")
	b.state = v
	return b
}

// WithLogger replaces the logger.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.ensureNotBuilt("WithLogger")
	b.logs = l
	return b
}

// WithConfig replaces the connection settings. Zero values are replaced with their defaults.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.ensureNotBuilt("WithConfig")

	def := DefaultConfig()
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = def.ReadBufferSize
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = def.MaxHeaderBytes
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}

	b.cfg = cfg
	return b
}

// Build freezes the routes and middleware into a server. The builder cannot be modified afterwards.
func (b *Builder) Build() *Server {
	b.ensureNotBuilt("Build")
	b.built = true

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		router:    b.router,
		reverser:  b.reverser,
		chain:     NewChain(b.mws...),
		state:     b.state,
		logs:      b.logs,
		cfg:       b.cfg,
		baseCtx:   ctx,
		cancel:    cancel,
		listeners: map[net.Listener]struct{}{},
		conns:     map[net.Conn]struct{}{},
	}
}

// Reverse returns the url for a named route. Unlike the other methods it may be called after Build.
func (b *Builder) Reverse(name string, vals ...string) (string, error) {
	return b.reverser.Reverse(name, vals...)
}

func (b *Builder) ensureNotBuilt(op string) {
	if b.built {
		panic("qz: cannot call " + op + "() after calling Build")
	}
}

// Server accepts connections and answers exactly one request per connection.
type Server struct {
	router   *Router
	reverser *Reverser
	chain    Chain
	state    any
	logs     Logger
	cfg      Config

	baseCtx context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	closed    atomic.Bool
	listeners map[net.Listener]struct{}
	conns     map[net.Conn]struct{}
	wg        sync.WaitGroup
}

// Reverse returns the url based on the name and wildcard value.
func (s *Server) Reverse(name string, vals ...string) (string, error) {
	return s.reverser.Reverse(name, vals...)
}

// Routes lists the registered routes.
func (s *Server) Routes() []Route { return s.router.Routes() }

// Respond runs the request through the middleware chain and the router. Errors and panics never escape: they
// are turned into a status-only response.
func (s *Server) Respond(ctx context.Context, r *Request) (resp *Response) {
	if s.state != nil {
		ctx = WithState(ctx, s.state)
	}

	defer func() {
		if v := recover(); v != nil {
			err := errors.Newf("panic while serving %s %s: %v", r.Method(), r.Path(), v)
			s.logs.LogUnhandledServeError(err)
			resp = ErrorResponse(err)
		}
	}()

	resp, err := s.chain.Run(ctx, r, HandlerFunc(s.dispatch))
	if err != nil {
		if StatusFor(err) >= CodeInternalServerError {
			s.logs.LogUnhandledServeError(err)
		}
		return ErrorResponse(err)
	}

	if resp == nil {
		err := errors.Newf("handler for %s %s returned no response", r.Method(), r.Path())
		s.logs.LogUnhandledServeError(err)
		return ErrorResponse(err)
	}

	return resp
}

func (s *Server) dispatch(ctx context.Context, r *Request) (*Response, error) {
	h, err := s.router.Find(r.Path(), r.Method())
	if err != nil {
		return nil, err
	}

	return h.Serve(ctx, r)
}

// ErrorResponse converts an error into a response with an empty body. A method mismatch lists the allowed
// methods in the Allow header.
func ErrorResponse(err error) *Response {
	resp := NewResponse(StatusFor(err))

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		resp.SetHeader(HeaderAllow, joinMethods(mna.Allowed))
	}

	return resp
}

// ListenAndServe listens on the TCP address and then calls [Server.Serve].
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	return s.Serve(ln)
}

// Serve accepts connections on ln and serves each of them on its own goroutine. It always returns a non-nil
// error; after [Server.Shutdown] that error is [ErrServerClosed].
func (s *Server) Serve(ln net.Listener) error {
	if !s.track(ln) {
		ln.Close()
		return ErrServerClosed
	}
	defer s.untrack(ln)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			return errors.Wrap(err, "accept")
		}

		if !s.trackConn(conn) {
			conn.Close()
			return ErrServerClosed
		}

		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// Shutdown stops accepting connections and waits for in-flight requests to finish. When ctx expires first
// the remaining connections are closed and the context error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed.Store(true)
	for ln := range s.listeners {
		ln.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	defer s.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func (s *Server) track(ln net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false
	}
	s.listeners[ln] = struct{}{}
	return true
}

func (s *Server) untrack(ln net.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, ln)
}

func (s *Server) trackConn(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrackConn(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

type stateKey struct{}

// WithState returns a context that carries v for [State].
func WithState(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, stateKey{}, v)
}

// State returns the shared state registered with [Builder.WithState], if it has type S.
func State[S any](ctx context.Context) (S, bool) {
	v, ok := ctx.Value(stateKey{}).(S)
	return v, ok
}
