package middleware

import (
	"context"

	"github.com/advdv/qz"
	"github.com/cockroachdb/errors"
)

// Recoverer turns a panic further down the chain into an error so that outer middleware still sees the
// failure as a 500 instead of the panic skipping them.
func Recoverer() qz.Middleware {
	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (resp *qz.Response, err error) {
		defer func() {
			if v := recover(); v != nil {
				resp, err = nil, qz.NewError(qz.CodeInternalServerError, errors.Newf("recovered from panic: %v", v))
			}
		}()

		return next(ctx, r)
	})
}
