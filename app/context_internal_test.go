package app

import (
	"context"
	"testing"

	"github.com/advdv/qz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogCarriesTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(tracetest.NewSpanRecorder()))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	h := withRequestDep(&requestDep{logger: zap.New(core)})
	_, err := h.Intercept(ctx, qz.NewRequest(qz.MethodGet, "/"), func(ctx context.Context, _ *qz.Request) (*qz.Response, error) {
		Log(ctx).Info("inside")
		assert.Equal(t, span.SpanContext(), Span(ctx).SpanContext())
		return qz.NewResponse(qz.CodeOK), nil
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestLogWithoutSpan(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), ctxKeyRequestDep, &requestDep{logger: zap.New(core)})

	Log(ctx).Info("no span")
	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
}

func TestLogWithoutMiddleware(t *testing.T) {
	assert.PanicsWithValue(t, "app: requestDep not found in context; is the middleware configured?", func() {
		Log(context.Background())
	})
}

func TestNewTracerProvider(t *testing.T) {
	t.Run("unsupported exporter", func(t *testing.T) {
		_, err := newExporter("xrayudp")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported QZ_OTEL_EXPORTER")
	})

	t.Run("stdout", func(t *testing.T) {
		exp, err := newExporter("stdout")
		require.NoError(t, err)
		require.NotNil(t, exp)
	})
}
