package app

import (
	"context"
	"net"
	"strconv"

	"github.com/advdv/qz"
	"github.com/advdv/qz/middleware"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
)

// ServerConfig holds optional configuration for the server.
type ServerConfig struct {
	HealthHandler qz.Handler
	State         any
}

// BuilderParams holds the dependencies for creating the route builder.
type BuilderParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewBuilder creates the route builder with the app middleware and the health endpoint in place. Routing
// functions add their routes to it before the server is built.
func NewBuilder(params BuilderParams, cfg ServerConfig) (*qz.Builder, error) {
	accessLog, err := middleware.AccessLog(params.Logger.Named("access"), params.Env.errorStatusCodes())
	if err != nil {
		return nil, err
	}

	// The health endpoint is polled by orchestrators, tracing it only produces noise.
	healthPath := params.Env.healthPath()
	health := cfg.HealthHandler
	if health == nil {
		health = qz.Status(qz.CodeOK)
	}

	b := qz.NewBuilder().
		WithLogger(newServerLogger(params.Logger)).
		WithConfig(qz.Config{
			ReadTimeout:  params.Env.readTimeout(),
			WriteTimeout: params.Env.writeTimeout(),
			MaxBodyBytes: params.Env.maxBodyBytes(),
		}).
		Use(
			middleware.Tracing(params.TracerProv, params.Propagator, healthPath),
			withRequestDep(&requestDep{logger: params.Logger}),
			accessLog,
			middleware.Recoverer(),
		).
		Route(healthPath, qz.MethodGet, health)

	if cfg.State != nil {
		b = b.WithState(cfg.State)
	}

	return b, nil
}

// NewServer freezes the builder. It must only be resolved after all routing functions ran.
func NewServer(b *qz.Builder) *qz.Server {
	return b.Build()
}

// startServerHook registers lifecycle hooks for the server.
func startServerHook(lc fx.Lifecycle, srv *qz.Server, env Environment, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(env.port())))
			if err != nil {
				return errors.Wrap(err, "listen")
			}

			if n := env.maxConnections(); n > 0 {
				ln = netutil.LimitListener(ln, n)
			}

			logger.Info("starting server", zap.Stringer("addr", ln.Addr()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, qz.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}
