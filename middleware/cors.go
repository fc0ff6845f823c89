package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/advdv/qz"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	// Origins lists the allowed origins. Empty or containing "*" allows any origin.
	Origins []string
	Methods []qz.Method
	Headers []string
	MaxAge  time.Duration
}

// CORSOption configures the CORS middleware.
type CORSOption func(*CORSConfig)

// AllowOrigins restricts the origins that may make cross-origin requests.
func AllowOrigins(origins ...string) CORSOption {
	return func(c *CORSConfig) { c.Origins = append(c.Origins, origins...) }
}

// AllowMethods replaces the methods announced to preflight requests.
func AllowMethods(methods ...qz.Method) CORSOption {
	return func(c *CORSConfig) { c.Methods = methods }
}

// AllowHeaders replaces the request headers announced to preflight requests.
func AllowHeaders(headers ...string) CORSOption {
	return func(c *CORSConfig) { c.Headers = headers }
}

// MaxAge sets how long a preflight result may be cached.
func MaxAge(d time.Duration) CORSOption {
	return func(c *CORSConfig) { c.MaxAge = d }
}

// CORS answers preflight requests and marks responses with the allowed origin. Requests without an Origin
// header pass through untouched, requests from an origin that is not allowed are answered with 401.
func CORS(opts ...CORSOption) qz.Middleware {
	cfg := CORSConfig{
		Methods: []qz.Method{qz.MethodPost, qz.MethodGet, qz.MethodOptions},
		Headers: []string{"*"},
		MaxAge:  24 * time.Hour,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	anyOrigin := len(cfg.Origins) == 0 || lo.Contains(cfg.Origins, "*")
	methods := strings.Join(lo.Map(cfg.Methods, func(m qz.Method, _ int) string { return m.String() }), ", ")
	headers := strings.Join(cfg.Headers, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge / time.Second))

	return qz.MiddlewareFunc(func(ctx context.Context, r *qz.Request, next qz.Next) (*qz.Response, error) {
		origin, ok := r.HeaderValue(qz.HeaderOrigin)
		if !ok {
			return next(ctx, r)
		}

		if !anyOrigin && !lo.Contains(cfg.Origins, origin) {
			return nil, qz.NewError(qz.CodeUnauthorized, errors.Newf("origin %q is not allowed", origin))
		}

		allowed := origin
		if anyOrigin {
			allowed = "*"
		}

		if r.Method() == qz.MethodOptions {
			resp := qz.NewResponse(qz.CodeOK)
			resp.SetHeader(qz.HeaderAccessControlAllowOrigin, allowed)
			resp.SetHeader(qz.HeaderAccessControlAllowMethods, methods)
			resp.SetHeader(qz.HeaderAccessControlAllowHeaders, headers)
			resp.SetHeader(qz.HeaderAccessControlMaxAge, maxAge)
			return resp, nil
		}

		resp, err := next(ctx, r)
		if err != nil {
			return nil, err
		}

		resp.SetHeader(qz.HeaderAccessControlAllowOrigin, allowed)
		return resp, nil
	})
}
