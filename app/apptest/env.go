package apptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [app.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [app.BaseEnvironment] env vars to test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - QZ_SERVICE_NAME: "test"
//   - QZ_HEALTH_PATH: "/health"
//   - QZ_OTEL_EXPORTER: "none"
//   - QZ_ERROR_STATUS_CODES: "500-599"
//
// Use the returned [Env] to override individual values:
//
//	apptest.SetBaseEnv(t, 18085).ServiceName("items").HealthPath("/ready")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("QZ_PORT", strconv.Itoa(port))
	t.Setenv("QZ_SERVICE_NAME", "test")
	t.Setenv("QZ_HEALTH_PATH", "/health")
	t.Setenv("QZ_OTEL_EXPORTER", "none")
	t.Setenv("QZ_ERROR_STATUS_CODES", "500-599")
	return &Env{t: t}
}

// ServiceName overrides QZ_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("QZ_SERVICE_NAME", name)
	return e
}

// HealthPath overrides QZ_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("QZ_HEALTH_PATH", path)
	return e
}

// MaxConnections overrides QZ_MAX_CONNECTIONS.
func (e *Env) MaxConnections(n int) *Env {
	e.t.Helper()
	e.t.Setenv("QZ_MAX_CONNECTIONS", strconv.Itoa(n))
	return e
}

// MaxBodyBytes overrides QZ_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int) *Env {
	e.t.Helper()
	e.t.Setenv("QZ_MAX_BODY_BYTES", strconv.Itoa(n))
	return e
}

// ErrorStatusCodes overrides QZ_ERROR_STATUS_CODES.
func (e *Env) ErrorStatusCodes(expr string) *Env {
	e.t.Helper()
	e.t.Setenv("QZ_ERROR_STATUS_CODES", expr)
	return e
}
