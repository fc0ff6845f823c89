// Package middleware provides interceptors for the qz middleware chain.
package middleware

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/advdv/qz"
)

// BasicAuth protects every path below root with a single user and password. Unauthenticated requests are
// answered with 401 and a Basic challenge without reaching the handler.
func BasicAuth(realm, user, pass, root string) qz.Middleware {
	want := []byte("Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
	challenge := `Basic realm="` + strings.ReplaceAll(realm, `"`, "") + `", charset="UTF-8"`

	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		if !underRoot(r.Path(), root) {
			return next(ctx, r)
		}

		got, _ := r.Header().Get(qz.HeaderAuthorization)
		if subtle.ConstantTimeCompare(bytes.TrimSpace(got), want) == 1 {
			return next(ctx, r)
		}

		resp := qz.NewResponse(qz.CodeUnauthorized)
		resp.SetHeader(qz.HeaderWWWAuthenticate, challenge)
		return resp, nil
	})
}

func underRoot(path []byte, root string) bool {
	root = strings.TrimSuffix(root, "/")
	if !bytes.HasPrefix(path, []byte(root)) {
		return false
	}

	rest := path[len(root):]
	return len(rest) == 0 || rest[0] == '/'
}
