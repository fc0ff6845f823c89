// Package app provides a batteries-included way of running a qz server as a service.
//
// # Overview
//
// app handles the boilerplate around a [qz.Server]: environment parsing, structured logging, OpenTelemetry
// tracing, access logging and graceful shutdown. A complete application is created in a single call:
//
//	app.NewApp[Env](func(b *qz.Builder, h *Handlers) {
//	    b.RouteFunc("/items", qz.MethodGet, h.ListItems)
//	    b.RouteFunc("/items/*", qz.MethodGet, h.GetItem, "get-item")
//	},
//	    app.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    app.BaseEnvironment
//	    DataDir string `env:"DATA_DIR,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable              | Required | Default | Description                                         |
//	|-----------------------|----------|---------|-----------------------------------------------------|
//	| QZ_PORT               | Yes      | -       | Port the server listens on                          |
//	| QZ_SERVICE_NAME       | Yes      | -       | Service name for logging and tracing                |
//	| QZ_HEALTH_PATH        | No       | /health | Health check endpoint, excluded from tracing        |
//	| QZ_LOG_LEVEL          | No       | info    | Log level (debug, info, warn, error)                |
//	| QZ_OTEL_EXPORTER      | No       | stdout  | Trace exporter: "stdout" or "none"                  |
//	| QZ_READ_TIMEOUT       | No       | 30s     | Time allowed for reading a request                  |
//	| QZ_WRITE_TIMEOUT      | No       | 30s     | Time allowed for writing a response                 |
//	| QZ_MAX_CONNECTIONS    | No       | 0       | Connections served at once, 0 is unlimited          |
//	| QZ_MAX_BODY_BYTES     | No       | 2097152 | Largest accepted request body                       |
//	| QZ_ERROR_STATUS_CODES | No       | 500-599 | Statuses that are access logged at error level      |
//
// QZ_ERROR_STATUS_CODES is an interval expression such as "500,502-504" or "500-". It must cover
// [DefaultRequiredErrorStatusCodes], the app refuses to start otherwise.
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler constructors
// via fx. It gives typed access to the environment and reverses named routes.
//
// # Request scope
//
// Every request passes through the tracing, access log and recover middleware. Inside a handler, [Log]
// returns a logger that carries the trace and span id, and [Span] returns the current span:
//
//	func (h *Handlers) GetItem(ctx context.Context, r *qz.Request) (*qz.Response, error) {
//	    app.Span(ctx).AddEvent("fetching item")
//	    app.Log(ctx).Info("getting item", zap.ByteString("path", r.Path()))
//	    // ...
//	}
//
// # Testing
//
// The apptest package builds the identical graph with fxtest so that wiring errors fail the test.
package app
