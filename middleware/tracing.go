package middleware

import (
	"context"

	"github.com/advdv/qz"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/advdv/qz/middleware"

// Tracing starts a server span for every request. The remote parent is extracted from the request headers
// with prop. Requests for one of the excluded paths are not traced.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func Tracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, excludePaths ...string) qz.Middleware {
	tracer := tp.Tracer(tracerName)

	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		path := string(r.Path())
		if lo.Contains(excludePaths, path) {
			return next(ctx, r)
		}

		ctx = prop.Extract(ctx, HeaderCarrier(r.Header()))
		ctx, span := tracer.Start(ctx, r.Method().String()+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method().String()),
				semconv.URLPath(path),
			))
		defer span.End()

		resp, err := next(ctx, r)

		code := qz.StatusFor(err)
		if err == nil && resp != nil {
			code = resp.Code()
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(int(code)))
		if err != nil {
			span.RecordError(err)
		}
		if code >= qz.CodeInternalServerError {
			span.SetStatus(codes.Error, code.Reason())
		}

		return resp, err
	})
}

// HeaderCarrier adapts a header map to a propagation.TextMapCarrier. Only headers in the catalog can be
// carried, others are dropped on Set and never found on Get.
type HeaderCarrier qz.Header

var _ propagation.TextMapCarrier = HeaderCarrier{}

// Get implements propagation.TextMapCarrier.
func (c HeaderCarrier) Get(key string) string {
	name := qz.HeaderByString(key)
	if name == qz.HeaderUnknown {
		return ""
	}

	v, _ := qz.Header(c).Get(name)
	return string(v)
}

// Set implements propagation.TextMapCarrier.
func (c HeaderCarrier) Set(key, value string) {
	if name := qz.HeaderByString(key); name != qz.HeaderUnknown {
		qz.Header(c).Set(name, []byte(value))
	}
}

// Keys implements propagation.TextMapCarrier.
func (c HeaderCarrier) Keys() []string {
	return lo.FilterMap(qz.Header(c).Names(), func(n qz.HeaderName, _ int) (string, bool) {
		return n.String(), n != qz.HeaderUnknown
	})
}
