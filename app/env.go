package app

import (
	"time"

	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

// RecommendedErrorStatusCodes is the value suggested when QZ_ERROR_STATUS_CODES misses a required code.
const RecommendedErrorStatusCodes = "500-599"

// DefaultRequiredErrorStatusCodes are the codes the server produces on its own for failures: a panicking or
// failing handler (500) and a request with an unsupported protocol version (505).
var DefaultRequiredErrorStatusCodes = []int{500, 505}

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthPath() string
	logLevel() zapcore.Level
	otelExporter() string
	readTimeout() time.Duration
	writeTimeout() time.Duration
	maxConnections() int
	maxBodyBytes() int
	errorStatusCodes() string
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port         int           `env:"QZ_PORT,required"`
	ServiceName  string        `env:"QZ_SERVICE_NAME,required"`
	HealthPath   string        `env:"QZ_HEALTH_PATH" envDefault:"/health"`
	LogLevel     zapcore.Level `env:"QZ_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"QZ_OTEL_EXPORTER" envDefault:"stdout"`
	ReadTimeout  time.Duration `env:"QZ_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"QZ_WRITE_TIMEOUT" envDefault:"30s"`
	// MaxConnections caps the number of connections served at once, zero means no limit.
	MaxConnections   int    `env:"QZ_MAX_CONNECTIONS" envDefault:"0"`
	MaxBodyBytes     int    `env:"QZ_MAX_BODY_BYTES" envDefault:"2097152"`
	ErrorStatusCodes string `env:"QZ_ERROR_STATUS_CODES" envDefault:"500-599"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) healthPath() string {
	return e.HealthPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) readTimeout() time.Duration {
	return e.ReadTimeout
}

func (e BaseEnvironment) writeTimeout() time.Duration {
	return e.WriteTimeout
}

func (e BaseEnvironment) maxConnections() int {
	return e.MaxConnections
}

func (e BaseEnvironment) maxBodyBytes() int {
	return e.MaxBodyBytes
}

func (e BaseEnvironment) errorStatusCodes() string {
	return e.ErrorStatusCodes
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if err := ValidateErrorStatusCodes(e.errorStatusCodes(), DefaultRequiredErrorStatusCodes...); err != nil {
			return e, errors.Wrap(err, "invalid QZ_ERROR_STATUS_CODES")
		}

		return e, nil
	}
}

// ValidateErrorStatusCodes checks that the interval expression, e.g. "500,502-504" or "500-", covers every
// required status code.
func ValidateErrorStatusCodes(expr string, required ...int) error {
	parsed, err := intervals.ParseExpression(expr)
	if err != nil {
		return errors.Wrapf(err, "failed to parse error status codes %q", expr)
	}

	missing := lo.Reject(required, func(code int, _ int) bool { return parsed.Matches(code) })
	if len(missing) > 0 {
		return errors.Newf("error status codes %q do not cover all required codes, missing: %v (recommended value: %q)",
			expr, missing, RecommendedErrorStatusCodes)
	}

	return nil
}
