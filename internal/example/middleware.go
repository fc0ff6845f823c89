// Package example implements example middleware in an outside package.
package example

import (
	"context"

	"github.com/advdv/qz"
	"go.uber.org/zap"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *zap.Logger) qz.Middleware {
	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		logs := logs.With(zap.Stringer("method", r.Method()), zap.ByteString("path", r.Path()))

		return next(context.WithValue(ctx, ctxKey("zap"), logs), r)
	})
}

func Log(ctx context.Context) *zap.Logger {
	v, _ := ctx.Value(ctxKey("zap")).(*zap.Logger)

	return v
}
