package middleware

import (
	"context"
	"time"

	"github.com/advdv/qz"
	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultErrorStatusCodes is the expression used by AccessLog when none is given.
const DefaultErrorStatusCodes = "500-599"

// AccessLog writes one entry per request. Responses whose status matches the errorCodes expression, e.g.
// "500,502-504" or "500-", are logged at error level, everything else at info.
func AccessLog(logs *zap.Logger, errorCodes string) (qz.Middleware, error) {
	if errorCodes == "" {
		errorCodes = DefaultErrorStatusCodes
	}

	expr, err := intervals.ParseExpression(errorCodes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse error status codes %q", errorCodes)
	}

	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		start := time.Now()
		resp, err := next(ctx, r)

		code := qz.StatusFor(err)
		if err == nil && resp != nil {
			code = resp.Code()
		}

		level := zapcore.InfoLevel
		if expr.Matches(int(code)) {
			level = zapcore.ErrorLevel
		}

		fields := []zap.Field{
			zap.Stringer("method", r.Method()),
			zap.ByteString("path", r.Path()),
			zap.Int("status", int(code)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		logs.Log(level, "request", fields...)
		return resp, err
	}), nil
}
