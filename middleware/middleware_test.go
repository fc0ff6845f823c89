package middleware_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/advdv/qz"
	"github.com/advdv/qz/middleware"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serve(mws ...qz.Middleware) *qz.Server {
	return qz.NewBuilder().
		WithLogger(qz.NewZapLogger(zap.NewNop())).
		Use(mws...).
		RouteFunc("/", qz.MethodGet, func(context.Context, *qz.Request) (*qz.Response, error) {
			return qz.Text(qz.CodeOK, "home"), nil
		}).
		RouteFunc("/admin/users", qz.MethodGet, func(context.Context, *qz.Request) (*qz.Response, error) {
			return qz.Text(qz.CodeOK, "users"), nil
		}).
		RouteFunc("/fail", qz.MethodGet, func(context.Context, *qz.Request) (*qz.Response, error) {
			return nil, errors.New("boom")
		}).
		RouteFunc("/panic", qz.MethodGet, func(context.Context, *qz.Request) (*qz.Response, error) {
			panic("oops")
		}).
		Build()
}

func request(path string, hdrs ...string) *qz.Request {
	r := qz.NewRequest(qz.MethodGet, path)
	for i := 0; i+1 < len(hdrs); i += 2 {
		r.SetHeader(qz.HeaderByString(hdrs[i]), hdrs[i+1])
	}
	return r
}

func TestBasicAuth(t *testing.T) {
	srv := serve(middleware.BasicAuth("admin area", "admin", "secret", "/admin"))
	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	bad := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:wrong"))

	t.Run("outside root", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/"))
		assert.Equal(t, qz.CodeOK, resp.Code())
	})

	t.Run("no credentials", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/admin/users"))
		require.Equal(t, qz.CodeUnauthorized, resp.Code())
		challenge, ok := resp.HeaderValue(qz.HeaderWWWAuthenticate)
		require.True(t, ok)
		assert.Equal(t, `Basic realm="admin area", charset="UTF-8"`, challenge)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/admin/users", "Authorization", bad))
		assert.Equal(t, qz.CodeUnauthorized, resp.Code())
	})

	t.Run("valid credentials", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/admin/users", "Authorization", good))
		require.Equal(t, qz.CodeOK, resp.Code())
		assert.Equal(t, "users", string(resp.Body().Bytes()))
	})
}

func TestCORS(t *testing.T) {
	t.Run("no origin passes through", func(t *testing.T) {
		resp := serve(middleware.CORS()).Respond(t.Context(), request("/"))
		require.Equal(t, qz.CodeOK, resp.Code())
		_, ok := resp.HeaderValue(qz.HeaderAccessControlAllowOrigin)
		assert.False(t, ok)
	})

	t.Run("any origin", func(t *testing.T) {
		resp := serve(middleware.CORS()).Respond(t.Context(), request("/", "Origin", "https://a.example"))
		require.Equal(t, qz.CodeOK, resp.Code())
		acao, _ := resp.HeaderValue(qz.HeaderAccessControlAllowOrigin)
		assert.Equal(t, "*", acao)
	})

	t.Run("preflight", func(t *testing.T) {
		req := request("/", "Origin", "https://a.example")
		req.SetMethod(qz.MethodOptions)

		resp := serve(middleware.CORS()).Respond(t.Context(), req)
		require.Equal(t, qz.CodeOK, resp.Code())
		for name, exp := range map[qz.HeaderName]string{
			qz.HeaderAccessControlAllowOrigin:  "*",
			qz.HeaderAccessControlAllowMethods: "POST, GET, OPTIONS",
			qz.HeaderAccessControlAllowHeaders: "*",
			qz.HeaderAccessControlMaxAge:       "86400",
		} {
			got, _ := resp.HeaderValue(name)
			assert.Equal(t, exp, got, name.String())
		}
	})

	srv := serve(middleware.CORS(
		middleware.AllowOrigins("https://a.example", "https://b.example"),
		middleware.MaxAge(time.Minute)))

	t.Run("listed origin", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/", "Origin", "https://b.example"))
		require.Equal(t, qz.CodeOK, resp.Code())
		acao, _ := resp.HeaderValue(qz.HeaderAccessControlAllowOrigin)
		assert.Equal(t, "https://b.example", acao)
	})

	t.Run("unlisted origin", func(t *testing.T) {
		resp := srv.Respond(t.Context(), request("/", "Origin", "https://evil.example"))
		assert.Equal(t, qz.CodeUnauthorized, resp.Code())
	})

	t.Run("custom max age", func(t *testing.T) {
		req := request("/", "Origin", "https://a.example")
		req.SetMethod(qz.MethodOptions)

		maxAge, _ := srv.Respond(t.Context(), req).HeaderValue(qz.HeaderAccessControlMaxAge)
		assert.Equal(t, "60", maxAge)
	})
}

func TestRecoverer(t *testing.T) {
	var seen qz.Code
	outer := qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		resp, err := next(ctx, r)
		seen = qz.StatusFor(err)
		return resp, err
	})

	resp := serve(outer, middleware.Recoverer()).Respond(t.Context(), request("/panic"))
	assert.Equal(t, qz.CodeInternalServerError, resp.Code())
	assert.Equal(t, qz.CodeInternalServerError, seen)
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	mw, err := middleware.AccessLog(zap.New(core), "500-599")
	require.NoError(t, err)

	srv := serve(mw)
	srv.Respond(t.Context(), request("/"))
	srv.Respond(t.Context(), request("/fail"))
	srv.Respond(t.Context(), request("/missing"))

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, "/", entries[0].ContextMap()["path"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(500), entries[1].ContextMap()["status"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, int64(404), entries[2].ContextMap()["status"])

	t.Run("invalid expression", func(t *testing.T) {
		_, err := middleware.AccessLog(zap.NewNop(), "not-a-number")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prop := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	srv := serve(middleware.Tracing(tp, prop, "/healthz"))
	srv.Respond(t.Context(), request("/",
		"Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"))
	srv.Respond(t.Context(), request("/fail"))
	srv.Respond(t.Context(), request("/healthz"))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /", spans[0].Name())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "GET /fail", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.False(t, spans[1].Parent().IsValid())
}

func TestHeaderCarrier(t *testing.T) {
	h := qz.Header{}
	c := middleware.HeaderCarrier(h)

	c.Set("traceparent", "abc")
	c.Set("x-not-in-catalog", "dropped")

	assert.Equal(t, "abc", c.Get("Traceparent"))
	assert.Empty(t, c.Get("x-not-in-catalog"))
	assert.Equal(t, []string{"Traceparent"}, c.Keys())
}
